// Package importer reads a configuration file chosen by the user and hands it
// to the configuration store.
package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/kernel/sitenav/internal/message"
	"github.com/pterm/pterm"
)

// Status messages shown to the user.
const (
	StatusNoFile      = "No file selected."
	StatusParseError  = "Error parsing JSON file."
	StatusImported    = "Configuration imported successfully!"
	StatusImportError = "Error importing configuration."
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

var utf8BOM = []byte("\xef\xbb\xbf")

type Importer struct {
	sender message.Sender
	stdin  io.Reader
	logger *pterm.Logger
}

func New(sender message.Sender, logger *pterm.Logger) *Importer {
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Importer{sender: sender, stdin: os.Stdin, logger: logger}
}

// WithStdin replaces the reader used for StdinPath.
func (im *Importer) WithStdin(r io.Reader) *Importer {
	im.stdin = r
	return im
}

// HandleFiles imports the first of paths and returns the status to display.
// Any further paths are ignored.
func (im *Importer) HandleFiles(ctx context.Context, paths []string) string {
	if len(paths) == 0 || paths[0] == "" {
		return StatusNoFile
	}
	if len(paths) > 1 {
		im.logger.Debug("ignoring extra files", im.logger.Args("count", len(paths)-1))
	}

	data, err := im.read(paths[0])
	if err != nil {
		im.logger.Warn("failed to read configuration file", im.logger.Args("path", paths[0], "error", err))
		return StatusParseError
	}
	return im.HandleContent(ctx, data)
}

// HandleContent imports data if it is valid JSON.
func (im *Importer) HandleContent(ctx context.Context, data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !json.Valid(data) {
		return StatusParseError
	}

	resp, err := im.sender.Send(ctx, message.Request{
		Action: message.ActionImportConfig,
		Config: json.RawMessage(data),
	})
	if err != nil {
		im.logger.Error("import request failed", im.logger.Args("error", err))
		return StatusImportError
	}
	if !resp.Success {
		return StatusImportError
	}
	return StatusImported
}

func (im *Importer) read(path string) ([]byte, error) {
	if path == StdinPath {
		return io.ReadAll(im.stdin)
	}
	return os.ReadFile(path)
}
