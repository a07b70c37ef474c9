// Package config reads binding files. A binding file maps combinations to
// actions under a top-level "binds" table:
//
//	[binds]
//	"left-shift + q" = { type = "cmd", command = "echo hi" }
//
// TOML is the default format; files ending in .yaml or .yml are read as YAML
// with the same shape.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"

	"hotkeyd/internal/hotkeys"
)

const maxConfigFileBytes int64 = 1 << 20 // 1MB

// Format is the syntax of a binding file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from path's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// entry is one value of the binds table.
type entry struct {
	Type    string `toml:"type" yaml:"type"`
	Command string `toml:"command" yaml:"command"`
}

type document struct {
	Binds map[string]entry `toml:"binds" yaml:"binds"`
}

// Load reads path and returns its raw entries sorted by combination. It does
// not validate combinations or actions; see LoadTable.
func Load(path string) ([]hotkeys.Spec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config path required")
	}
	raw, err := readLimitedFile(path, maxConfigFileBytes)
	if err != nil {
		return nil, fmt.Errorf("read binding file: %w", err)
	}
	return Parse(raw, FormatFor(path))
}

// Parse decodes raw in the given format. An empty document, or one without a
// binds table, yields no entries and a logged warning.
func Parse(raw []byte, format Format) ([]hotkeys.Spec, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		slog.Warn("[config] binding file is empty, no binds loaded")
		return nil, nil
	}

	var doc document
	var presence map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &presence); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		if err := toml.Unmarshal(raw, &presence); err != nil {
			return nil, fmt.Errorf("parse toml: %w", describeTOMLError(err))
		}
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse toml: %w", describeTOMLError(err))
		}
	}

	if _, ok := presence["binds"]; !ok {
		slog.Warn("[config] binding file has no binds table, no binds loaded")
		return nil, nil
	}

	specs := make([]hotkeys.Spec, 0, len(doc.Binds))
	for combo, e := range doc.Binds {
		specs = append(specs, hotkeys.Spec{Combo: combo, Type: e.Type, Command: e.Command})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Combo < specs[j].Combo })
	return specs, nil
}

// LoadTable reads path and builds a validated binding table.
func LoadTable(path string) (*hotkeys.Table, error) {
	specs, err := Load(path)
	if err != nil {
		return nil, err
	}
	table, err := hotkeys.BuildTable(specs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// describeTOMLError adds line and column context when go-toml provides it.
func describeTOMLError(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("binding file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
