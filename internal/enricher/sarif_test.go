// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package enricher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/types"
)

func enrichedCatalogue(t *testing.T) *types.Catalogue {
	t.Helper()
	result, err := New(nil).Enrich(loadCatalogue(t), Config{})
	require.NoError(t, err)
	return result.Catalogue
}

func TestToSARIF_Envelope(t *testing.T) {
	report := ToSARIF(enrichedCatalogue(t), "1.2.3")

	assert.Equal(t, types.SARIFSchema, report.Schema)
	assert.Equal(t, types.SARIFVersion, report.Version)
	require.Len(t, report.Runs, 1)

	driver := report.Runs[0].Tool.Driver
	assert.Equal(t, "cvss-calc", driver.Name)
	assert.Equal(t, "1.2.3", driver.Version)
	assert.Len(t, driver.Rules, 7)
	assert.Len(t, report.Runs[0].Results, 7)

	for i, res := range report.Runs[0].Results {
		assert.Equal(t, i, res.RuleIndex)
		assert.Equal(t, driver.Rules[i].ID, res.RuleID)
	}
}

func TestToSARIF_Levels(t *testing.T) {
	report := ToSARIF(enrichedCatalogue(t), "dev")
	results := report.Runs[0].Results

	tests := []struct {
		id    string
		level string
	}{
		{"1", "error"},   // Critical
		{"2", "error"},   // High
		{"3", "warning"}, // Medium
		{"4", "note"},    // Low
		{"5", "note"},    // None
		{"6", "note"},    // cannot be scored
		{"7", "note"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.id, results[i].RuleID)
			assert.Equal(t, tt.level, results[i].Level)
		})
	}
}

func TestToSARIF_RuleProperties(t *testing.T) {
	report := ToSARIF(enrichedCatalogue(t), "dev")
	rules := report.Runs[0].Tool.Driver.Rules

	sqli := rules[0]
	assert.Equal(t, "SQLInjection", sqli.Name)
	require.NotNil(t, sqli.ShortDescription)
	assert.Equal(t, "SQL Injection", sqli.ShortDescription.Text)
	require.NotNil(t, sqli.FullDescription)
	assert.Equal(t, "Unsanitised input reaches the database.", sqli.FullDescription.Text)
	assert.Equal(t, "9.8", sqli.Properties["security-severity"])
	assert.Equal(t, []string{"security", "Web Application", "CRITICAL"}, sqli.Properties["tags"])

	none := rules[4]
	assert.Equal(t, "0.0", none.Properties["security-severity"])

	partial := rules[5]
	assert.NotContains(t, partial.Properties, "security-severity")
	assert.Nil(t, partial.FullDescription)
	assert.Equal(t, []string{"security"}, partial.Properties["tags"])
}

func TestToSARIF_Messages(t *testing.T) {
	report := ToSARIF(enrichedCatalogue(t), "dev")
	results := report.Runs[0].Results

	assert.Equal(t,
		"SQL Injection: CVSS 9.8 (Critical), CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
		results[0].Message.Text)
	assert.Contains(t, results[5].Message.Text, "Half-filled finding: CVSS cannot be scored (CVSS:3.1/AV:N/AC:L/PR:_/UI:_/S:_/C:_/I:_/A:_)")
	assert.Contains(t, results[5].Message.Text, "is not set")
}

func TestToSARIF_MarshalsToJSON(t *testing.T) {
	out, err := json.Marshal(ToSARIF(enrichedCatalogue(t), "dev"))
	require.NoError(t, err)

	var doc struct {
		Schema string `json:"$schema"`
		Runs   []struct {
			Results []struct {
				Properties struct {
					CVSS struct {
						BaseScore *float64 `json:"base_score"`
						Vector    string   `json:"vector"`
					} `json:"cvss"`
				} `json:"properties"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, types.SARIFSchema, doc.Schema)
	require.NotNil(t, doc.Runs[0].Results[0].Properties.CVSS.BaseScore)
	assert.InDelta(t, 9.8, *doc.Runs[0].Results[0].Properties.CVSS.BaseScore, 1e-9)
	assert.Nil(t, doc.Runs[0].Results[5].Properties.CVSS.BaseScore)
}

func TestToSARIF_Empty(t *testing.T) {
	report := ToSARIF(&types.Catalogue{}, "dev")
	require.Len(t, report.Runs, 1)
	assert.Empty(t, report.Runs[0].Results)
	assert.NotNil(t, report.Runs[0].Tool.Driver.Rules)
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, "error", levelFor(cvss.SeverityCritical.String()))
	assert.Equal(t, "error", levelFor("HIGH"))
	assert.Equal(t, "warning", levelFor("medium"))
	assert.Equal(t, "note", levelFor("Low"))
	assert.Equal(t, "note", levelFor("None"))
	assert.Equal(t, "note", levelFor("bogus"))
}

func TestRuleName(t *testing.T) {
	assert.Equal(t, "SQLInjection", ruleName("SQL Injection"))
	assert.Equal(t, "HalfFilledFinding", ruleName("Half-filled finding"))
	assert.Equal(t, "", ruleName("  --  "))
}
