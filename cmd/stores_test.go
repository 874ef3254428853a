package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/ecwid-qa/sbx/internal/config"
	"github.com/ecwid-qa/sbx/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeHistoryReader struct {
	Data map[string][]history.Record
	Err  error
}

func (f *FakeHistoryReader) Records(sandbox string) ([]history.Record, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Data[sandbox], nil
}

type storesFixture struct {
	out    *bytes.Buffer
	copied []string
	opened []string
	cmd    StoresCmd
}

func newStoresFixture(records map[string][]history.Record) *storesFixture {
	f := &storesFixture{out: &bytes.Buffer{}}
	f.cmd = StoresCmd{
		resolver: &FakeResolver{Name: "demo1"},
		history:  &FakeHistoryReader{Data: records},
		out:      f.out,
		copyFn: func(s string) error {
			f.copied = append(f.copied, s)
			return nil
		},
		openFn: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
	}
	return f
}

func TestStoresList_EmptyShowsPlaceholder(t *testing.T) {
	f := newStoresFixture(nil)

	require.NoError(t, f.cmd.List(context.Background(), StoresListInput{}))
	assert.Equal(t, "No stores created yet.\n", f.out.String())
}

func TestStoresList_NumbersMostRecentFirst(t *testing.T) {
	f := newStoresFixture(map[string][]history.Record{
		"demo1": {
			{Email: "old@example.com", Comment: "first"},
			{Email: "mid@example.com", Comment: "second"},
			{Email: "new@example.com", Comment: "third"},
		},
	})

	require.NoError(t, f.cmd.List(context.Background(), StoresListInput{}))
	assert.Equal(t,
		"1. new@example.com - Comment: third\n"+
			"2. mid@example.com - Comment: second\n"+
			"3. old@example.com - Comment: first\n",
		f.out.String())
}

func TestStoresList_ResolverFailureAborts(t *testing.T) {
	f := newStoresFixture(nil)
	f.cmd.resolver = &FakeResolver{Err: errors.New("no active tab found")}

	err := f.cmd.List(context.Background(), StoresListInput{})
	assert.Error(t, err)
}

func TestStoresList_SandboxOverrideSkipsResolver(t *testing.T) {
	f := newStoresFixture(map[string][]history.Record{
		"pinned": {{Email: "a@example.com", Comment: "x"}},
	})
	f.cmd.resolver = &FakeResolver{Err: errors.New("browser not running")}

	require.NoError(t, f.cmd.List(context.Background(), StoresListInput{Sandbox: "pinned"}))
	assert.Contains(t, f.out.String(), "1. a@example.com - Comment: x")
}

func TestStoresList_RejectsUnknownOutput(t *testing.T) {
	f := newStoresFixture(nil)
	assert.Error(t, f.cmd.List(context.Background(), StoresListInput{Output: "yaml"}))
}

func TestStoresCopy_CopiesSelectedEmail(t *testing.T) {
	f := newStoresFixture(map[string][]history.Record{
		"demo1": {
			{Email: "old@example.com", Comment: "first"},
			{Email: "new@example.com", Comment: "second"},
		},
	})

	// Position 1 is the most recently added record.
	require.NoError(t, f.cmd.Copy(context.Background(), StoresCopyInput{Index: 1}))
	assert.Equal(t, []string{"new@example.com"}, f.copied)
}

func TestStoresCopy_IndexOutOfRange(t *testing.T) {
	f := newStoresFixture(map[string][]history.Record{
		"demo1": {{Email: "a@example.com", Comment: "x"}},
	})

	assert.Error(t, f.cmd.Copy(context.Background(), StoresCopyInput{Index: 0}))
	assert.Error(t, f.cmd.Copy(context.Background(), StoresCopyInput{Index: 2}))
	assert.Empty(t, f.copied)
}

func TestStoresCopy_ClipboardFailureReported(t *testing.T) {
	f := newStoresFixture(map[string][]history.Record{
		"demo1": {{Email: "a@example.com", Comment: "x"}},
	})
	f.cmd.copyFn = func(string) error { return errors.New("no display") }

	assert.Error(t, f.cmd.Copy(context.Background(), StoresCopyInput{Index: 1}))
}

func TestStoresOpen_OpensControlPanel(t *testing.T) {
	old := cfg
	cfg = &config.Config{QADomain: "ecwid.qa"}
	t.Cleanup(func() { cfg = old })

	f := newStoresFixture(nil)
	require.NoError(t, f.cmd.Open(context.Background(), StoresOpenInput{}))
	assert.Equal(t, []string{"https://mydemo1.ecwid.qa/cp/"}, f.opened)
}
