// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Selection maps each metric group to its chosen option letter. Callers
// replace a Selection wholesale on every change; nothing in this package
// mutates one that was passed in.
type Selection map[Group]string

// DefaultSelection returns the selection a new calculator starts with:
// CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H.
func DefaultSelection() Selection {
	return Selection{
		AttackVector:       "A",
		AttackComplexity:   "L",
		PrivilegesRequired: "N",
		UserInteraction:    "N",
		Scope:              ScopeUnchanged,
		Confidentiality:    "H",
		Integrity:          "H",
		Availability:       "H",
	}
}

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for g, v := range s {
		out[g] = v
	}
	return out
}

// With returns a copy of s with g set to value.
func (s Selection) With(g Group, value string) Selection {
	out := s.Clone()
	out[g] = value
	return out
}

// SelectionFromMap builds a selection from loosely written metric pairs.
// Keys and values are trimmed and matched case-insensitively. Keys that fold
// to the same group are rejected and that group is left unset, so the result
// does not depend on map order. The selection is returned even on error.
func SelectionFromMap(m map[string]string) (Selection, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sel := make(Selection, len(m))
	seen := make(map[Group][]string, len(m))
	for _, k := range keys {
		g := Group(strings.ToUpper(strings.TrimSpace(k)))
		seen[g] = append(seen[g], k)
		sel[g] = strings.ToUpper(strings.TrimSpace(m[k]))
	}

	var result *multierror.Error
	for _, k := range keys {
		g := Group(strings.ToUpper(strings.TrimSpace(k)))
		dups := seen[g]
		if len(dups) < 2 || dups[0] != k {
			continue
		}
		delete(sel, g)
		result = multierror.Append(result, fmt.Errorf("%s given more than once (keys %q)", g, dups))
	}
	if result == nil {
		return sel, nil
	}
	result.ErrorFormat = joinErrors
	return sel, fmt.Errorf("%w: %v", ErrInvalidMetricSelection, result)
}

// String returns the vector form of s, with placeholders for missing groups.
func (s Selection) String() string {
	return BuildVector(s)
}

// Validate checks that every group is present with an allowed option and that
// no unknown groups are set. All problems are reported together.
func (s Selection) Validate() error {
	var result *multierror.Error
	for _, m := range metrics {
		v, ok := s[m.Group]
		switch {
		case !ok || v == "":
			result = multierror.Append(result, fmt.Errorf("%s (%s) is not set", m.Group, m.Name))
		case !m.Allows(v):
			result = multierror.Append(result, fmt.Errorf("%s (%s) has unknown option %q, want one of %s",
				m.Group, m.Name, v, strings.Join(m.Values(), ", ")))
		}
	}

	var unknown []string
	for g := range s {
		if !isGroup(g) {
			unknown = append(unknown, string(g))
		}
	}
	sort.Strings(unknown)
	for _, g := range unknown {
		result = multierror.Append(result, fmt.Errorf("%q is not a base metric", g))
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = joinErrors
	return fmt.Errorf("%w: %v", ErrInvalidMetricSelection, result)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
