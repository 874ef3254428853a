package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestCache_SaveOverwritesAndLoadsBack(t *testing.T) {
	keyring.MockInit()

	c := Cache{}
	require.NoError(t, c.Save("a@example.com", "hunter22"))
	require.NoError(t, c.Save("b@example.com", "password9"))

	email, password := c.Load()
	assert.Equal(t, "b@example.com", email)
	assert.Equal(t, "password9", password)
}

func TestCache_LoadEmptyWhenNothingSaved(t *testing.T) {
	keyring.MockInit()

	email, password := Cache{}.Load()
	assert.Empty(t, email)
	assert.Empty(t, password)
}
