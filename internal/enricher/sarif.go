// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package enricher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/types"
)

const (
	toolName           = "cvss-calc"
	toolInformationURI = "https://www.first.org/cvss/v3.1/specification-document"
)

// ToSARIF converts an enriched catalogue into a SARIF v2.1.0 report with one
// rule and one result per record.
func ToSARIF(cat *types.Catalogue, version string) *types.SARIFReport {
	rules := make([]types.SARIFRule, 0, len(cat.Vulnerabilities))
	results := make([]types.SARIFResult, 0, len(cat.Vulnerabilities))

	for i := range cat.Vulnerabilities {
		vuln := &cat.Vulnerabilities[i]

		rule := types.SARIFRule{
			ID:         vuln.ID,
			Name:       ruleName(vuln.Name),
			Properties: map[string]any{},
		}
		if vuln.Name != "" {
			rule.ShortDescription = &types.SARIFMessage{Text: vuln.Name}
		}
		if desc := vuln.ExtraString("description"); desc != "" {
			rule.FullDescription = &types.SARIFMessage{Text: desc}
		}
		if ref := vuln.ExtraString("reference"); strings.HasPrefix(ref, "http") {
			rule.HelpURI = ref
		}

		tags := []string{"security"}
		if cat := vuln.Category(); cat != "" {
			tags = append(tags, cat)
		}

		result := types.SARIFResult{
			RuleID:     vuln.ID,
			RuleIndex:  i,
			Level:      "note",
			Properties: map[string]any{},
		}

		if vuln.CVSS.Scored() {
			score := *vuln.CVSS.BaseScore
			rule.Properties["security-severity"] = strconv.FormatFloat(score, 'f', 1, 64)
			tags = append(tags, strings.ToUpper(vuln.CVSS.Severity))

			result.Level = levelFor(vuln.CVSS.Severity)
			result.Message.Text = fmt.Sprintf("%s: CVSS %s, %s", displayName(vuln), vuln.CVSS.Label, vuln.CVSS.Vector)
			result.Properties["cvss"] = vuln.CVSS
		} else {
			var reason, vector string
			if vuln.CVSS != nil {
				reason, vector = vuln.CVSS.Error, vuln.CVSS.Vector
			}
			result.Message.Text = fmt.Sprintf("%s: CVSS cannot be scored (%s): %s", displayName(vuln), vector, reason)
			if vuln.CVSS != nil {
				result.Properties["cvss"] = vuln.CVSS
			}
		}
		rule.Properties["tags"] = tags

		rules = append(rules, rule)
		results = append(results, result)
	}

	return &types.SARIFReport{
		Schema:  types.SARIFSchema,
		Version: types.SARIFVersion,
		Runs: []types.SARIFRun{
			{
				Tool: types.SARIFTool{
					Driver: types.SARIFDriver{
						Name:           toolName,
						Version:        version,
						InformationURI: toolInformationURI,
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// levelFor maps a severity rating to a SARIF result level.
func levelFor(severity string) string {
	sev, err := cvss.ParseSeverity(severity)
	if err != nil {
		return "note"
	}
	switch sev {
	case cvss.SeverityCritical, cvss.SeverityHigh:
		return "error"
	case cvss.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ruleName turns a record name into a PascalCase SARIF rule name.
func ruleName(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}) {
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

func displayName(vuln *types.Vulnerability) string {
	if vuln.Name == "" {
		return vuln.ID
	}
	return vuln.Name
}
