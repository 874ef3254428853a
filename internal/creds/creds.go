// Package creds caches the last-used registration credentials in the
// OS keychain so the form can be pre-filled on the next run.
package creds

import "github.com/zalando/go-keyring"

const (
	service     = "sbx-qa-registrar"
	emailKey    = "last-email"
	passwordKey = "last-password"
)

// Cache stores exactly one email/password pair, overwritten on every
// registration attempt, successful or not.
type Cache struct{}

// Save overwrites the cached pair. Both writes are attempted; the
// first failure is returned.
func (Cache) Save(email, password string) error {
	if err := keyring.Set(service, emailKey, email); err != nil {
		return err
	}
	return keyring.Set(service, passwordKey, password)
}

// Load returns the cached pair. Missing or unreadable entries come
// back empty; pre-filling is best effort.
func (Cache) Load() (email, password string) {
	email, _ = keyring.Get(service, emailKey)
	password, _ = keyring.Get(service, passwordKey)
	return email, password
}
