package kbrowser

import (
	_ "embed"
)

// Embedded Playwright scripts executed through Kernel's Playwright execution API.
// Each page of the browser context is one tab; its index is the tab id.

//go:embed scripts/list_tabs.js
var ListTabsScript string

//go:embed scripts/activate_tab.js
var ActivateTabScript string

//go:embed scripts/open_tab.js
var OpenTabScript string
