package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/kernel/sitenav/internal/localtabs"
	"github.com/kernel/sitenav/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGotoCmd(tabs *FakeTabService, pick OptionPicker) GotoCmd {
	return GotoCmd{
		tabs:      tabs,
		navigator: tabNavigator{tabs: tabs, config: newBundledStore(), pick: pick},
	}
}

func TestGoto_OpensNewTab(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{Tabs: []menu.Tab{shopTab()}, ActiveID: 7}

	err := newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{Option: "Admin console"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.example.com/console"}, tabs.Created)
	assert.Empty(t, tabs.Activated)
	assert.Contains(t, outBuf.String(), "Going to Admin console")
}

func TestGoto_SwitchesToExistingTab(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{Tabs: []menu.Tab{shopTab()}, ActiveID: 7}

	err := newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{Option: "Storefront"})

	require.NoError(t, err)
	assert.Equal(t, []int{7}, tabs.Activated)
	assert.Empty(t, tabs.Created)
}

func TestGoto_PromptsForOption(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{Tabs: []menu.Tab{shopTab()}, ActiveID: 7}

	var offered []string
	pick := func(titles []string) (string, error) {
		offered = titles
		return "Backoffice", nil
	}

	require.NoError(t, newGotoCmd(tabs, pick).Goto(context.Background(), GotoInput{}))
	assert.Equal(t, []string{"Storefront", "Admin console", "Backoffice"}, offered)
	assert.Equal(t, []string{"https://shop.example.com/backoffice"}, tabs.Created)
}

func TestGoto_PickerError(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{Tabs: []menu.Tab{shopTab()}, ActiveID: 7}
	pick := func([]string) (string, error) { return "", errors.New("interrupted") }

	err := newGotoCmd(tabs, pick).Goto(context.Background(), GotoInput{})
	assert.ErrorContains(t, err, "interrupted")
	assert.Empty(t, tabs.Created)
}

func TestGoto_UnknownOption(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{Tabs: []menu.Tab{shopTab()}, ActiveID: 7}

	err := newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{Option: "Nope"})
	assert.ErrorContains(t, err, `no option titled "Nope"`)
}

func TestGoto_NoActiveTab(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{NoActive: true}

	require.NoError(t, newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{}))
	assert.Contains(t, outBuf.String(), "no active tab")
}

func TestGoto_ActiveTabError(t *testing.T) {
	setupStdoutCapture(t)
	tabs := &FakeTabService{
		ActiveFunc: func(ctx context.Context) (*menu.Tab, error) { return nil, errors.New("session expired") },
	}

	err := newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{})
	assert.ErrorContains(t, err, "session expired")
}

func TestGoto_NoShortcuts(t *testing.T) {
	setupStdoutCapture(t)
	tab := menu.Tab{ID: 1, URL: "https://unknown.example.net/", Status: menu.StatusComplete, Active: true}
	tabs := &FakeTabService{Tabs: []menu.Tab{tab}, ActiveID: 1}

	require.NoError(t, newGotoCmd(tabs, nil).Goto(context.Background(), GotoInput{}))
	assert.Contains(t, outBuf.String(), "No shortcuts for https://unknown.example.net/")
}

func TestOpen_UsesSystemBrowser(t *testing.T) {
	setupStdoutCapture(t)

	var opened []string
	tabs := localtabs.NewWithOpener(func(url string) error {
		opened = append(opened, url)
		return nil
	})
	o := OpenCmd{
		tabs:      tabs,
		navigator: tabNavigator{tabs: tabs, config: newBundledStore()},
	}

	err := o.Open(context.Background(), OpenInput{URL: "https://staging.example.com/shop/cart", Option: "HAC"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://staging.example.com/hac"}, opened)
}

func TestOpen_HybrisConsole(t *testing.T) {
	setupStdoutCapture(t)

	var opened []string
	tabs := localtabs.NewWithOpener(func(url string) error {
		opened = append(opened, url)
		return nil
	})
	o := OpenCmd{
		tabs:      tabs,
		navigator: tabNavigator{tabs: tabs, config: newBundledStore()},
	}

	err := o.Open(context.Background(), OpenInput{URL: "https://cms.example.org:9002/hac/monitoring", Option: "Go to Backoffice"})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://cms.example.org:9002/backoffice"}, opened)
}
