// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CurrentSchemaVersion is written on catalogues produced by this tool.
const CurrentSchemaVersion = 1

// Catalogue is a list of vulnerability records exported from the
// assessment dashboard.
type Catalogue struct {
	SchemaVersion   int             `json:"schema_version"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Summary         *Summary        `json:"summary,omitempty"`
}

// Summary counts scored records per severity.
type Summary struct {
	Total      int            `json:"total"`
	Scored     int            `json:"scored"`
	Invalid    int            `json:"invalid"`
	BySeverity map[string]int `json:"by_severity"`
}

// Vulnerability is a single catalogue record. Fields the tool reads or
// writes are typed; everything else (description, impact, remediations,
// reference, category, ...) is kept in Extras and re-emitted on marshal.
type Vulnerability struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Vector  string            `json:"vector,omitempty"`
	Metrics map[string]string `json:"metrics,omitempty"`
	// CVSS holds the computed score. Its Label is also written to the
	// record's "cvss" field, where the dashboard keeps it. Without a new
	// label the record's original "cvss" value is written back unchanged.
	CVSS *CVSSData `json:"cvss_details,omitempty"`
	// Extras holds all other JSON fields for passthrough.
	Extras map[string]json.RawMessage `json:"-"`

	numericID bool
	cvssRaw   json.RawMessage
}

// CVSSData is the scoring block added to each record. Scores are nil when
// the record's metrics are incomplete or invalid; Error says why.
type CVSSData struct {
	BaseScore           *float64 `json:"base_score,omitempty"`
	ExploitabilityScore *float64 `json:"exploitability_score,omitempty"`
	ImpactScore         *float64 `json:"impact_score,omitempty"`
	Severity            string   `json:"severity,omitempty"`
	Vector              string   `json:"vector"`
	Label               string   `json:"label,omitempty"`
	Error               string   `json:"error,omitempty"`
}

// Scored reports whether the record carries a base score.
func (d *CVSSData) Scored() bool {
	return d != nil && d.Error == "" && d.BaseScore != nil
}

// vulnKnownFields lists the JSON keys that correspond to typed fields on
// Vulnerability. Everything else goes into Extras.
var vulnKnownFields = map[string]bool{
	"id":           true,
	"name":         true,
	"vector":       true,
	"metrics":      true,
	"cvss":         true,
	"cvss_details": true,
}

// UnmarshalJSON decodes a Vulnerability from JSON, extracting known fields
// into their typed counterparts and capturing everything else in Extras.
// Numeric ids are accepted and written back as numbers. A "cvss" field
// holding a CVSS v3 vector is used when "vector" is absent.
func (v *Vulnerability) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	get := func(key string, dst interface{}) error {
		raw, ok := all[key]
		if !ok || bytes.Equal(raw, []byte("null")) {
			return nil
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		return nil
	}

	if raw := bytes.TrimSpace(all["id"]); len(raw) > 0 && raw[0] != '"' && !bytes.Equal(raw, []byte("null")) {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return fmt.Errorf("field %q: %w", "id", err)
		}
		v.ID = num.String()
		v.numericID = true
	} else if err := get("id", &v.ID); err != nil {
		return err
	}
	if err := get("name", &v.Name); err != nil {
		return err
	}
	if err := get("vector", &v.Vector); err != nil {
		return err
	}
	if err := get("metrics", &v.Metrics); err != nil {
		return err
	}
	if _, ok := all["cvss_details"]; ok {
		v.CVSS = &CVSSData{}
		if err := get("cvss_details", v.CVSS); err != nil {
			return err
		}
	}
	if raw, ok := all["cvss"]; ok {
		v.cvssRaw = raw
	}
	if v.Vector == "" {
		var label string
		if err := json.Unmarshal(all["cvss"], &label); err == nil && isVector(label) {
			v.Vector = label
		}
	}

	extras := make(map[string]json.RawMessage)
	for k, val := range all {
		if !vulnKnownFields[k] {
			extras[k] = val
		}
	}
	if len(extras) > 0 {
		v.Extras = extras
	}

	return nil
}

// MarshalJSON encodes a Vulnerability to JSON, merging typed fields with
// the passthrough Extras map.
func (v Vulnerability) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{})

	// Merge extras first so typed fields take precedence.
	for k, val := range v.Extras {
		m[k] = val
	}

	if v.numericID {
		m["id"] = json.Number(v.ID)
	} else {
		m["id"] = v.ID
	}
	m["name"] = v.Name
	if v.Vector != "" {
		m["vector"] = v.Vector
	}
	if len(v.Metrics) > 0 {
		m["metrics"] = v.Metrics
	}
	if v.cvssRaw != nil {
		m["cvss"] = v.cvssRaw
	}
	if v.CVSS != nil {
		m["cvss_details"] = v.CVSS
		if v.CVSS.Label != "" {
			m["cvss"] = v.CVSS.Label
		}
	}

	return json.Marshal(m)
}

// ExtraString returns the string value of an Extras field, or "" if it is
// absent or not a string. For objects with a "name" key (such as the
// dashboard's nested category_of_testing) the name is returned.
func (v *Vulnerability) ExtraString(key string) string {
	raw, ok := v.Extras[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var named struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &named); err == nil {
		return named.Name
	}
	return ""
}

// Category returns the record's testing category name.
func (v *Vulnerability) Category() string {
	return v.ExtraString("category_of_testing")
}

func isVector(s string) bool {
	return len(s) > len("CVSS:3") && s[:len("CVSS:3")] == "CVSS:3"
}
