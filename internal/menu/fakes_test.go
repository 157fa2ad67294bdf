package menu

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/stretchr/testify/require"
)

// FakeTabService is an in-memory browser with one window per tab group.
type FakeTabService struct {
	Tabs     []Tab
	ActiveID int
	QueryErr error

	Activated []int
	Focused   []int
	Created   []string
}

func (f *FakeTabService) Query(ctx context.Context) ([]Tab, error) {
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	out := make([]Tab, len(f.Tabs))
	copy(out, f.Tabs)
	return out, nil
}

func (f *FakeTabService) Get(ctx context.Context, id int) (*Tab, error) {
	for _, t := range f.Tabs {
		if t.ID == id {
			tab := t
			return &tab, nil
		}
	}
	return nil, ErrTabNotFound
}

func (f *FakeTabService) Active(ctx context.Context) (*Tab, error) {
	return f.Get(ctx, f.ActiveID)
}

func (f *FakeTabService) Activate(ctx context.Context, id int) error {
	f.Activated = append(f.Activated, id)
	f.ActiveID = id
	return nil
}

func (f *FakeTabService) FocusWindow(ctx context.Context, windowID int) error {
	f.Focused = append(f.Focused, windowID)
	return nil
}

func (f *FakeTabService) Create(ctx context.Context, url string) (*Tab, error) {
	f.Created = append(f.Created, url)
	tab := Tab{ID: len(f.Tabs) + 100, URL: url, Status: StatusComplete}
	f.Tabs = append(f.Tabs, tab)
	return &tab, nil
}

// FakeConfig returns a fixed configuration or error.
type FakeConfig struct {
	Config *siteconfig.Config
	Err    error
}

func (f *FakeConfig) Get(ctx context.Context) (*siteconfig.Config, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Config, nil
}

// recordingMenu wraps TerminalMenu and counts RemoveAll calls.
type recordingMenu struct {
	*TerminalMenu
	removes int
}

func (r *recordingMenu) RemoveAll(ctx context.Context) error {
	r.removes++
	return r.TerminalMenu.RemoveAll(ctx)
}

const testConfig = `{
	"domains": [
		{"domain_name": "a.com", "cluster": "c1", "env": "e1"},
		{"domain_name": "b.com", "cluster": "c1", "env": "e2"}
	],
	"clusters": [{"id": "c1", "envs": [
		{"id": "e1", "options": [
			{"title": "Admin", "url": "https://a.com/admin"},
			{"title": "Docs", "url": "https://docs.a.com/"}
		]},
		{"id": "e2", "options": [{"title": "B Admin", "url": "https://b.com/admin"}]}
	]}]
}`

func decodeConfig(t *testing.T, raw string) *siteconfig.Config {
	t.Helper()
	cfg, err := siteconfig.Decode(json.RawMessage(raw))
	require.NoError(t, err)
	return cfg
}

func newTestSynchronizer(t *testing.T, tabs *FakeTabService) (*Synchronizer, *recordingMenu) {
	t.Helper()
	m := &recordingMenu{TerminalMenu: NewTerminalMenu()}
	s := NewSynchronizer(SynchronizerOptions{
		Config: &FakeConfig{Config: decodeConfig(t, testConfig)},
		Tabs:   tabs,
		Menu:   m,
	})
	return s, m
}

var errBoom = errors.New("boom")
