// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"strings"
	"testing"

	gocvss31 "github.com/pandatix/go-cvss/31"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluate_MatchesReferenceImplementation scores every valid selection
// with pandatix/go-cvss and compares base score and rating.
func TestEvaluate_MatchesReferenceImplementation(t *testing.T) {
	for _, sel := range allSelections() {
		vector := BuildVector(sel)

		ref, err := gocvss31.ParseVector(vector)
		require.NoError(t, err, vector)
		wantScore := ref.BaseScore()
		wantRating, err := gocvss31.Rating(wantScore)
		require.NoError(t, err, vector)

		got, err := Evaluate(sel)
		require.NoError(t, err, vector)

		assert.InDelta(t, wantScore, got.BaseScore, 1e-9, vector)
		assert.True(t, strings.EqualFold(wantRating, got.Severity.String()),
			"%s: rating %s, got %s", vector, wantRating, got.Severity)
	}
}

func TestMetrics(t *testing.T) {
	ms := Metrics()
	require.Len(t, ms, 8)
	assert.Equal(t, []Group{"AV", "AC", "PR", "UI", "S", "C", "I", "A"}, Groups())

	wantValues := map[Group][]string{
		AttackVector:       {"N", "A", "L", "P"},
		AttackComplexity:   {"L", "H"},
		PrivilegesRequired: {"N", "L", "H"},
		UserInteraction:    {"N", "R"},
		Scope:              {"U", "C"},
		Confidentiality:    {"N", "L", "H"},
		Integrity:          {"N", "L", "H"},
		Availability:       {"N", "L", "H"},
	}
	for _, m := range ms {
		assert.Equal(t, wantValues[m.Group], m.Values(), m.Group)
		assert.NotEmpty(t, m.Name)
		for _, o := range m.Options {
			assert.NotEmpty(t, o.Label, "%s:%s", m.Group, o.Value)
			assert.NotEmpty(t, o.Description, "%s:%s", m.Group, o.Value)
			_, ok := weightOf(DefaultSelection().With(m.Group, o.Value), m.Group)
			assert.True(t, ok, "no weight for %s:%s", m.Group, o.Value)
		}
	}

	// Callers get copies.
	ms[0].Options[0].Label = "changed"
	again, ok := LookupGroup(AttackVector)
	require.True(t, ok)
	assert.Equal(t, "Network", again.Options[0].Label)

	_, ok = LookupGroup("E")
	assert.False(t, ok)
}
