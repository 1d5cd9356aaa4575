// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bonial-oss/cvss-calc/internal/types"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

type ParseResult struct {
	Format    Format
	Catalogue *types.Catalogue
}

// ErrEmptyCatalogue is returned when the input holds no vulnerability records.
var ErrEmptyCatalogue = errors.New("no vulnerability records in input")

// Parse decodes a vulnerability catalogue. Input starting with '{' or '[' is
// JSON; anything else is YAML. Three shapes are accepted: a catalogue object
// with a "vulnerabilities" list, a paginated API page with a "results" list,
// and a bare list of records.
func Parse(data []byte) (*ParseResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	format := FormatJSON
	if trimmed[0] != '{' && trimmed[0] != '[' {
		format = FormatYAML
		converted, err := yamlToJSON(trimmed)
		if err != nil {
			return nil, err
		}
		trimmed = converted
	}

	cat, err := decodeCatalogue(trimmed)
	if err != nil {
		return nil, err
	}
	if len(cat.Vulnerabilities) == 0 {
		return nil, ErrEmptyCatalogue
	}
	return &ParseResult{Format: format, Catalogue: cat}, nil
}

func decodeCatalogue(data []byte) (*types.Catalogue, error) {
	if data[0] == '[' {
		var vulns []types.Vulnerability
		if err := json.Unmarshal(data, &vulns); err != nil {
			return nil, fmt.Errorf("parsing vulnerability list: %w", err)
		}
		return &types.Catalogue{Vulnerabilities: vulns}, nil
	}

	var probe struct {
		SchemaVersion   int             `json:"schema_version"`
		Vulnerabilities json.RawMessage `json:"vulnerabilities"`
		Results         json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}

	list := probe.Vulnerabilities
	if list == nil {
		list = probe.Results
	}
	if list == nil {
		return nil, fmt.Errorf("unrecognized input format: expected \"vulnerabilities\" or \"results\" list")
	}

	cat := &types.Catalogue{SchemaVersion: probe.SchemaVersion}
	if err := json.Unmarshal(list, &cat.Vulnerabilities); err != nil {
		return nil, fmt.Errorf("parsing vulnerability list: %w", err)
	}
	return cat, nil
}

// yamlToJSON re-encodes a YAML document as JSON so records go through the
// same passthrough decoding as JSON input.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML input: %w", err)
	}
	switch doc.(type) {
	case map[string]interface{}, []interface{}:
	default:
		return nil, fmt.Errorf("unrecognized input format: not a JSON or YAML document")
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting YAML input: %w", err)
	}
	return out, nil
}
