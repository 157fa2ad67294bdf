// Package siteconfig holds the site navigation configuration and the store that
// loads, caches, persists and replaces it.
package siteconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StorageKey is the storage entry that holds the configuration.
const StorageKey = "config"

// Config maps known hostnames to clusters and environments.
type Config struct {
	Domains  []DomainRule `json:"domains"`
	Clusters []Cluster    `json:"clusters"`
}

// DomainRule matches a hostname and, optionally, a set of first path segments.
type DomainRule struct {
	DomainName    string   `json:"domain_name"`
	PossiblePaths []string `json:"possible_paths,omitempty"`
	Cluster       ID       `json:"cluster"`
	Env           ID       `json:"env"`
}

type Cluster struct {
	ID   ID    `json:"id"`
	Envs []Env `json:"envs"`
}

type Env struct {
	ID      ID       `json:"id"`
	Options []Option `json:"options"`
}

// Option is a navigation shortcut shown in the menu.
type Option struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ID is a cluster or environment identifier. It keeps the raw JSON token so
// that the string "1" and the number 1 are different ids.
type ID string

// StringID returns the ID of a JSON string value.
func StringID(s string) ID {
	return ID(strconv.Quote(s))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	token := buf.String()
	// Numbers compare by value, so 1, 1.0 and 1e0 are the same id.
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		if f == 0 {
			f = 0
		}
		token = strconv.FormatFloat(f, 'f', -1, 64)
	}
	*id = ID(token)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	return []byte(id), nil
}

// String returns the display form of the id, unquoted for strings.
func (id ID) String() string {
	var s string
	if err := json.Unmarshal([]byte(id), &s); err == nil {
		return s
	}
	return string(id)
}

// Decode parses a configuration payload. Payloads that are valid JSON but are
// not shaped like a configuration decode to an empty Config along with the
// decode error, so callers can log it and keep going.
func Decode(raw json.RawMessage) (*Config, error) {
	cfg := &Config{}
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return &Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}
