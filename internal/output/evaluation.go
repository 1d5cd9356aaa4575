// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
)

const maxDescriptionWords = 14

// WriteResultTable writes a single evaluation: the chosen option of every
// metric group followed by the sub-scores and the rating.
func WriteResultTable(w io.Writer, res cvss.Result, bd cvss.Breakdown, cfg TableConfig) error {
	sel, err := cvss.ParseVector(res.Vector)
	if err != nil {
		return fmt.Errorf("rendering result: %w", err)
	}

	writeHeading(w, res.Vector, cfg.IsTerminal)
	fmt.Fprintln(w)

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetAutoMerge(false)
	tw.SetHeaders("Metric", "Value")
	for _, m := range cvss.Metrics() {
		tw.AddRow(fmt.Sprintf("%s (%s)", m.Name, m.Group), optionLabel(m, sel[m.Group]))
	}
	severity := strings.ToUpper(res.Severity.String())
	if cfg.IsTerminal {
		severity = colorizeSeverity(severity)
	}
	tw.AddRow("Exploitability", fmt.Sprintf("%.1f", bd.ExploitabilityScore))
	tw.AddRow("Impact", fmt.Sprintf("%.1f", bd.ImpactScore))
	tw.AddRow("Base Score", fmt.Sprintf("%.1f", res.BaseScore))
	tw.AddRow("Severity", severity)
	tw.Render()
	return nil
}

// WriteMetricsTable writes the reference table of metric groups, their
// options and the rating bands.
func WriteMetricsTable(w io.Writer, cfg TableConfig) error {
	writeHeading(w, "CVSS v3.1 Base Metrics", cfg.IsTerminal)
	fmt.Fprintln(w)

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("Metric", "Option", "Label", "Description")
	for _, m := range cvss.Metrics() {
		name := fmt.Sprintf("%s (%s)", m.Name, m.Group)
		for _, o := range m.Options {
			tw.AddRow(name, o.Value, o.Label, truncateWords(o.Description, maxDescriptionWords))
		}
	}
	tw.Render()

	fmt.Fprintln(w)
	writeHeading(w, "Severity Ratings", cfg.IsTerminal)
	fmt.Fprintln(w)

	bt := newTableWriter(w, cfg.IsTerminal)
	bt.SetAutoMerge(false)
	bt.SetHeaders("Severity", "Score Range")
	for _, b := range cvss.Bands() {
		severity := strings.ToUpper(b.Severity.String())
		if cfg.IsTerminal {
			severity = colorizeSeverity(severity)
		}
		bt.AddRow(severity, fmt.Sprintf("%.1f - %.1f", b.Lower, b.Upper))
	}
	bt.Render()
	return nil
}

func optionLabel(m cvss.Metric, value string) string {
	for _, o := range m.Options {
		if o.Value == value {
			return fmt.Sprintf("%s (%s)", o.Label, o.Value)
		}
	}
	return value
}
