package siteconfig

import (
	_ "embed"
)

// Bundled is the default configuration shipped with the binary. It seeds
// storage on first run only.
//
//go:embed bundled/config.json
var Bundled []byte
