package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/kernel/sitenav/internal/menu"
	"github.com/kernel/sitenav/internal/siteconfig"
	"github.com/pterm/pterm"
)

var outBuf bytes.Buffer

// setupStdoutCapture sends pterm output to outBuf, without styling, for the
// duration of the test.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	pterm.SetDefaultOutput(&outBuf)
	// The prefix printers copied os.Stdout into Writer at package init, so
	// SetDefaultOutput does not reach them.
	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error}
	writers := make([]io.Writer, len(printers))
	for i, pp := range printers {
		writers[i] = pp.Writer
		pp.Writer = &outBuf
	}
	pterm.DisableStyling()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		for i, pp := range printers {
			pp.Writer = writers[i]
		}
		pterm.EnableStyling()
	})
}

// FakeTabService is an in-memory browser.
type FakeTabService struct {
	Tabs     []menu.Tab
	ActiveID int
	NoActive bool
	// QueryDelay simulates the latency of a remote browser.
	QueryDelay time.Duration

	ActiveFunc func(ctx context.Context) (*menu.Tab, error)

	Activated []int
	Created   []string
}

func (f *FakeTabService) Query(ctx context.Context) ([]menu.Tab, error) {
	if f.QueryDelay > 0 {
		time.Sleep(f.QueryDelay)
	}
	out := make([]menu.Tab, len(f.Tabs))
	copy(out, f.Tabs)
	return out, nil
}

func (f *FakeTabService) Get(ctx context.Context, id int) (*menu.Tab, error) {
	for _, t := range f.Tabs {
		if t.ID == id {
			tab := t
			return &tab, nil
		}
	}
	return nil, menu.ErrTabNotFound
}

func (f *FakeTabService) Active(ctx context.Context) (*menu.Tab, error) {
	if f.ActiveFunc != nil {
		return f.ActiveFunc(ctx)
	}
	if f.NoActive {
		return nil, nil
	}
	return f.Get(ctx, f.ActiveID)
}

func (f *FakeTabService) Activate(ctx context.Context, id int) error {
	f.Activated = append(f.Activated, id)
	return nil
}

func (f *FakeTabService) FocusWindow(ctx context.Context, windowID int) error {
	return nil
}

func (f *FakeTabService) Create(ctx context.Context, url string) (*menu.Tab, error) {
	f.Created = append(f.Created, url)
	return &menu.Tab{ID: 100 + len(f.Created), URL: url, Status: menu.StatusComplete}, nil
}

func shopTab() menu.Tab {
	return menu.Tab{ID: 7, URL: "https://shop.example.com/cart", Status: menu.StatusComplete, Active: true}
}

func newBundledStore() *siteconfig.Store {
	return siteconfig.NewStore(siteconfig.NewMemoryStorage(), siteconfig.Bundled, nil)
}
