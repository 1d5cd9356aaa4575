// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"fmt"
	"strings"
)

// VectorPrefix is the version tag every built vector starts with.
const VectorPrefix = "CVSS:3.1"

// placeholder stands in for a group that has not been selected yet.
const placeholder = "_"

// temporal and environmental metrics are accepted in parsed vectors but do
// not contribute to the base score.
var nonBaseMetrics = map[string]bool{
	"E": true, "RL": true, "RC": true,
	"CR": true, "IR": true, "AR": true,
	"MAV": true, "MAC": true, "MPR": true, "MUI": true,
	"MS": true, "MC": true, "MI": true, "MA": true,
}

// BuildVector renders sel as CVSS:3.1/AV:x/AC:x/PR:x/UI:x/S:x/C:x/I:x/A:x.
// A group missing from sel is rendered as GROUP:_ so a partially filled
// selection can still be displayed. Option values are not validated.
func BuildVector(sel Selection) string {
	var b strings.Builder
	b.WriteString(VectorPrefix)
	for _, m := range metrics {
		b.WriteByte('/')
		b.WriteString(string(m.Group))
		b.WriteByte(':')
		if v := sel[m.Group]; v != "" {
			b.WriteString(v)
		} else {
			b.WriteString(placeholder)
		}
	}
	return b.String()
}

// ParseVector parses a CVSS v3.0 or v3.1 vector into a complete Selection.
// Base metrics may appear in any order; temporal and environmental metrics
// are ignored.
func ParseVector(vector string) (Selection, error) {
	parts := strings.Split(strings.TrimRight(strings.TrimSpace(vector), "/"), "/")
	switch parts[0] {
	case "CVSS:3.0", "CVSS:3.1":
	default:
		return nil, fmt.Errorf("%w: unsupported version tag %q", ErrInvalidVector, parts[0])
	}

	sel := make(Selection, len(metrics))
	seen := make(map[string]bool, len(parts))
	for _, part := range parts[1:] {
		name, value, ok := strings.Cut(part, ":")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: malformed metric %q", ErrInvalidVector, part)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: metric %s given more than once", ErrInvalidVector, name)
		}
		seen[name] = true

		if nonBaseMetrics[name] {
			continue
		}
		if !isGroup(Group(name)) {
			return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidVector, name)
		}
		if value == placeholder {
			return nil, fmt.Errorf("%w: metric %s is not set", ErrInvalidVector, name)
		}
		sel[Group(name)] = value
	}

	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVector, err)
	}
	return sel, nil
}
