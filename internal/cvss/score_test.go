// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cvss

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParse builds a selection from a vector, failing the test on error.
func mustParse(t *testing.T, vector string) Selection {
	t.Helper()
	sel, err := ParseVector(vector)
	require.NoError(t, err, "ParseVector(%q)", vector)
	return sel
}

// allSelections enumerates every valid selection (2592 of them).
func allSelections() []Selection {
	out := []Selection{{}}
	for _, m := range metrics {
		next := make([]Selection, 0, len(out)*len(m.Options))
		for _, sel := range out {
			for _, o := range m.Options {
				next = append(next, sel.With(m.Group, o.Value))
			}
		}
		out = next
	}
	return out
}

func TestEvaluate_KnownVectors(t *testing.T) {
	tests := []struct {
		vector   string
		score    float64
		severity Severity
	}{
		{"CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 8.8, SeverityHigh},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:N", 0.0, SeverityNone},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H", 10.0, SeverityCritical},
		{"CVSS:3.1/AV:P/AC:H/PR:H/UI:R/S:U/C:L/I:L/A:L", 3.5, SeverityLow},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8, SeverityCritical},
		{"CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:C/C:L/I:L/A:N", 6.4, SeverityMedium},
		{"CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:U/C:N/I:H/A:N", 5.9, SeverityMedium},
		{"CVSS:3.1/AV:L/AC:L/PR:L/UI:N/S:U/C:H/I:H/A:H", 7.8, SeverityHigh},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:C/C:L/I:L/A:N", 6.1, SeverityMedium},
		{"CVSS:3.1/AV:L/AC:L/PR:H/UI:N/S:C/C:H/I:H/A:H", 8.2, SeverityHigh},
		{"CVSS:3.1/AV:N/AC:L/PR:H/UI:N/S:C/C:L/I:N/A:N", 4.1, SeverityMedium},
		{"CVSS:3.1/AV:P/AC:H/PR:H/UI:R/S:U/C:L/I:N/A:N", 1.6, SeverityLow},
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:C/C:N/I:N/A:N", 0.0, SeverityNone},
	}
	for _, tt := range tests {
		t.Run(tt.vector, func(t *testing.T) {
			got, err := Evaluate(mustParse(t, tt.vector))
			require.NoError(t, err)
			assert.InDelta(t, tt.score, got.BaseScore, 1e-9)
			assert.Equal(t, tt.severity, got.Severity)
			assert.Equal(t, tt.vector, got.Vector)
		})
	}
}

func TestEvaluate_DefaultSelection(t *testing.T) {
	got, err := Evaluate(DefaultSelection())
	require.NoError(t, err)

	want := Result{
		BaseScore: 8.8,
		Severity:  SeverityHigh,
		Vector:    "CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Evaluate(DefaultSelection()) mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "8.8 (High)", got.Label())
}

func TestComputeBaseScore_PrivilegesDependOnScope(t *testing.T) {
	// PR:L weighs 0.62 with S:U and 0.68 with S:C.
	unchanged := mustParse(t, "CVSS:3.1/AV:N/AC:L/PR:L/UI:N/S:U/C:L/I:L/A:N")
	changed := unchanged.With(Scope, ScopeChanged)

	u, err := SubScores(unchanged)
	require.NoError(t, err)
	c, err := SubScores(changed)
	require.NoError(t, err)

	assert.InDelta(t, 2.9, u.ExploitabilityScore, 1e-9)
	assert.InDelta(t, 3.2, c.ExploitabilityScore, 1e-9)
	assert.InDelta(t, 5.4, u.BaseScore, 1e-9)
	assert.InDelta(t, 6.4, c.BaseScore, 1e-9)
}

func TestComputeBaseScore_AllSelectionsInRange(t *testing.T) {
	sels := allSelections()
	require.Len(t, sels, 2592)

	for _, sel := range sels {
		raw, _, _, err := rawScores(sel)
		require.NoError(t, err, sel.String())
		got, err := ComputeBaseScore(sel)
		require.NoError(t, err, sel.String())

		assert.GreaterOrEqual(t, got, 0.0, sel.String())
		assert.LessOrEqual(t, got, 10.0, sel.String())

		tenths := got * 10
		assert.InDelta(t, math.Round(tenths), tenths, 1e-9, "%s: %v has more than one decimal", sel, got)

		// Rounded up, never down, and by less than one tenth.
		assert.GreaterOrEqual(t, got, raw-1e-9, "%s: %v rounded below %v", sel, got, raw)
		assert.Less(t, got-raw, 0.1, "%s: %v rounded too far above %v", sel, got, raw)
	}
}

func TestComputeBaseScore_InvalidSelection(t *testing.T) {
	full := DefaultSelection()
	missingIntegrity := full.Clone()
	delete(missingIntegrity, Integrity)

	tests := []struct {
		name    string
		sel     Selection
		wantMsg string
	}{
		{
			name:    "missing integrity",
			sel:     missingIntegrity,
			wantMsg: "I (Integrity) is not set",
		},
		{
			name:    "unknown attack vector",
			sel:     full.With(AttackVector, "X"),
			wantMsg: `AV (Attack Vector) has unknown option "X"`,
		},
		{
			name:    "unknown scope",
			sel:     full.With(Scope, "Z"),
			wantMsg: `S (Scope) has unknown option "Z"`,
		},
		{
			name:    "empty option",
			sel:     full.With(AttackComplexity, ""),
			wantMsg: "AC (Attack Complexity) is not set",
		},
		{
			name:    "extra metric",
			sel:     full.With("E", "H"),
			wantMsg: `"E" is not a base metric`,
		},
		{
			name:    "empty selection",
			sel:     Selection{},
			wantMsg: "AV (Attack Vector) is not set",
		},
		{
			name:    "nil selection",
			sel:     nil,
			wantMsg: "A (Availability) is not set",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := ComputeBaseScore(tt.sel)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMetricSelection), "error %v does not wrap ErrInvalidMetricSelection", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Zero(t, score)

			_, err = Evaluate(tt.sel)
			assert.ErrorIs(t, err, ErrInvalidMetricSelection)

			_, err = SubScores(tt.sel)
			assert.ErrorIs(t, err, ErrInvalidMetricSelection)
		})
	}
}

func TestComputeBaseScore_ReportsEveryProblem(t *testing.T) {
	sel := Selection{AttackVector: "Q", Scope: ScopeUnchanged}
	_, err := ComputeBaseScore(sel)
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{`AV (Attack Vector) has unknown option "Q"`, "AC (Attack Complexity)", "PR (Privileges Required)", "UI (User Interaction)", "C (Confidentiality)", "I (Integrity)", "A (Availability)"} {
		assert.Contains(t, msg, want)
	}
	assert.NotContains(t, msg, "S (Scope)")
}

func TestEvaluate_Deterministic(t *testing.T) {
	sel := mustParse(t, "CVSS:3.1/AV:N/AC:H/PR:L/UI:R/S:C/C:L/I:H/A:N")
	first, err := Evaluate(sel)
	require.NoError(t, err)

	second, err := Evaluate(sel.Clone())
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.BaseScore), math.Float64bits(second.BaseScore))
	assert.Equal(t, first, second)
}

func TestEvaluate_DoesNotMutateSelection(t *testing.T) {
	sel := DefaultSelection()
	before := sel.Clone()

	_, err := Evaluate(sel)
	require.NoError(t, err)
	assert.Equal(t, before, sel)

	_, err = Evaluate(sel.With(Integrity, "bogus"))
	require.Error(t, err)
	assert.Equal(t, before, sel)
}

func TestEvaluate_Concurrent(t *testing.T) {
	sels := allSelections()
	want := make([]Result, len(sels))
	for i, sel := range sels {
		r, err := Evaluate(sel)
		require.NoError(t, err)
		want[i] = r
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < len(sels); i += workers {
				got, err := Evaluate(sels[i])
				if err != nil || got != want[i] {
					errs <- sels[i].String()
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for vec := range errs {
		t.Errorf("concurrent Evaluate(%s) differs from sequential result", vec)
	}
}

func TestRoundUp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{4.0, 4.0},
		{4.000000000000001, 4.0},
		{4.02, 4.1},
		{4.1, 4.1},
		{8.7833, 8.8},
		{9.99, 10.0},
		{10.0, 10.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, roundUp(tt.in), 1e-9, "roundUp(%v)", tt.in)
	}
}

func TestSelection_With(t *testing.T) {
	base := DefaultSelection()
	next := base.With(AttackVector, "N")

	assert.Equal(t, "A", base[AttackVector], "With must not modify the receiver")
	assert.Equal(t, "N", next[AttackVector])
	assert.Equal(t, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", next.String())
}

func TestSelection_Validate(t *testing.T) {
	require.NoError(t, DefaultSelection().Validate())

	err := Selection{}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMetricSelection)
}

func TestSelectionFromMap(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]string
		want    Selection
		wantErr string
	}{
		{
			name: "normalised",
			in:   map[string]string{" av ": "n", "Ac": "L ", "s": "c"},
			want: Selection{AttackVector: "N", AttackComplexity: "L", Scope: "C"},
		},
		{
			name:    "keys differing in case",
			in:      map[string]string{"AV": "N", "av": "P", "Av": "L", "AC": "L"},
			want:    Selection{AttackComplexity: "L"},
			wantErr: `AV given more than once (keys ["AV" "Av" "av"])`,
		},
		{
			name:    "keys differing in spacing",
			in:      map[string]string{"C": "H", " c": "H"},
			want:    Selection{},
			wantErr: "C given more than once",
		},
		{name: "nil", in: nil, want: Selection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 50 {
				got, err := SelectionFromMap(tt.in)
				assert.Equal(t, tt.want, got)
				if tt.wantErr == "" {
					require.NoError(t, err)
					continue
				}
				require.ErrorIs(t, err, ErrInvalidMetricSelection)
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
