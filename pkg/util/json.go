package util

import (
	"encoding/json"

	"github.com/pterm/pterm"
)

// PrintPrettyJSON prints v as indented JSON.
func PrintPrettyJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	pterm.Println(string(data))
	return nil
}
