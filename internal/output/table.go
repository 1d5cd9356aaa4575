// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	aqtable "github.com/aquasecurity/table"
	"github.com/aquasecurity/tml"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/types"
)

const maxNameWords = 8

// Sort keys accepted by TableConfig.SortBy.
const (
	SortByScore    = "score"
	SortBySeverity = "severity"
	SortByID       = "id"
	SortByName     = "name"
)

// SortKeys lists the accepted sort keys; "" preserves input order.
var SortKeys = []string{SortByScore, SortBySeverity, SortByID, SortByName}

// TableConfig controls row order and styling.
type TableConfig struct {
	SortBy     string // "score", "severity", "id", "name", "" (preserve order)
	IsTerminal bool   // true when output goes to a terminal (enables ANSI styling)
}

// IsOutputToTerminal returns true if the writer is stdout connected to a
// character device (TTY).
func IsOutputToTerminal(output io.Writer) bool {
	return output == os.Stdout && term.IsTerminal(int(os.Stdout.Fd()))
}

// vulnRow holds a reference to a record for table rendering.
type vulnRow struct {
	vuln  *types.Vulnerability
	index int // original index for stable sort
}

// WriteTable writes an enriched catalogue as a findings table followed by
// a section listing records that could not be scored.
func WriteTable(w io.Writer, cat *types.Catalogue, cfg TableConfig) error {
	writeHeading(w, "Findings", cfg.IsTerminal)
	fmt.Fprintln(w, severitySummary(cat.Vulnerabilities))
	fmt.Fprintln(w)

	var scored, invalid []vulnRow
	for i := range cat.Vulnerabilities {
		row := vulnRow{vuln: &cat.Vulnerabilities[i], index: i}
		if row.vuln.CVSS.Scored() {
			scored = append(scored, row)
		} else {
			invalid = append(invalid, row)
		}
	}
	sortRows(scored, cfg.SortBy)

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetHeaders("ID", "Name", "Category", "Score", "Severity", "Vector")
	for _, row := range scored {
		tw.AddRow(rowCells(row.vuln, cfg)...)
	}
	tw.Render()

	if len(invalid) > 0 {
		writeInvalidSection(w, invalid, cfg)
	}
	return nil
}

// writeHeading writes a section title, underlined on a terminal.
func writeHeading(w io.Writer, title string, isTerminal bool) {
	if isTerminal {
		_ = tml.Fprintf(w, "<underline><bold>%s</bold></underline>\n", title)
		return
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
}

// newTableWriter creates a table writer with borders, auto-merge and row
// separators. When isTerminal is true, header and line styles use ANSI
// formatting.
func newTableWriter(w io.Writer, isTerminal bool) *aqtable.Table {
	tw := aqtable.New(w)
	if isTerminal {
		tw.SetHeaderStyle(aqtable.StyleBold)
		tw.SetLineStyle(aqtable.StyleDim)
	}
	tw.SetBorders(true)
	tw.SetAutoMerge(true)
	tw.SetRowLines(true)
	return tw
}

// writeInvalidSection renders the records that have no score together with
// their partial vector and the reason.
func writeInvalidSection(w io.Writer, rows []vulnRow, cfg TableConfig) {
	title := fmt.Sprintf("Findings Without Score (Total: %d)", len(rows))
	if cfg.IsTerminal {
		_ = tml.Fprintf(w, "\n<underline>%s</underline>\n\n", title)
	} else {
		fmt.Fprintf(w, "\n%s\n", title)
		fmt.Fprintf(w, "%s\n", strings.Repeat("=", utf8.RuneCountInString(title)))
	}

	tw := newTableWriter(w, cfg.IsTerminal)
	tw.SetAutoMerge(false)
	tw.SetHeaders("ID", "Name", "Vector", "Error")
	for _, row := range rows {
		var vector, reason string
		if row.vuln.CVSS != nil {
			vector, reason = row.vuln.CVSS.Vector, row.vuln.CVSS.Error
		}
		tw.AddRow(row.vuln.ID, truncateWords(row.vuln.Name, maxNameWords), vector, reason)
	}
	tw.Render()
}

// rowCells returns the cell values for a single scored record.
func rowCells(v *types.Vulnerability, cfg TableConfig) []string {
	severity := strings.ToUpper(v.CVSS.Severity)
	if cfg.IsTerminal {
		severity = colorizeSeverity(severity)
	}
	category := v.Category()
	if category == "" {
		category = "-"
	}
	return []string{
		v.ID,
		truncateWords(v.Name, maxNameWords),
		category,
		formatScore(v),
		severity,
		v.CVSS.Vector,
	}
}

// severitySummary returns a line like:
// Total: 5 (NONE: 0, LOW: 2, MEDIUM: 1, HIGH: 1, CRITICAL: 1, INVALID: 0)
func severitySummary(vulns []types.Vulnerability) string {
	counts := make(map[string]int)
	invalid := 0
	for i := range vulns {
		if !vulns[i].CVSS.Scored() {
			invalid++
			continue
		}
		counts[strings.ToUpper(vulns[i].CVSS.Severity)]++
	}
	return fmt.Sprintf("Total: %d (NONE: %d, LOW: %d, MEDIUM: %d, HIGH: %d, CRITICAL: %d, INVALID: %d)",
		len(vulns), counts["NONE"], counts["LOW"], counts["MEDIUM"], counts["HIGH"], counts["CRITICAL"], invalid)
}

// severityColors maps severity names to color functions.
var severityColors = map[string]func(a ...any) string{
	"NONE":     color.New(color.FgCyan).SprintFunc(),
	"LOW":      color.New(color.FgBlue).SprintFunc(),
	"MEDIUM":   color.New(color.FgYellow).SprintFunc(),
	"HIGH":     color.New(color.FgHiRed).SprintFunc(),
	"CRITICAL": color.New(color.FgRed).SprintFunc(),
}

// colorizeSeverity returns the severity string wrapped in ANSI color codes.
func colorizeSeverity(severity string) string {
	if fn, ok := severityColors[strings.ToUpper(severity)]; ok {
		return fn(severity)
	}
	return severity
}

// severityRank returns a numeric rank for sorting (higher = more severe).
func severityRank(v *types.Vulnerability) int {
	sev, err := cvss.ParseSeverity(v.CVSS.Severity)
	if err != nil {
		return -1
	}
	return int(sev)
}

// sortRows sorts the rows based on the given sort key.
func sortRows(rows []vulnRow, sortBy string) {
	switch sortBy {
	case SortByScore:
		sort.SliceStable(rows, func(i, j int) bool {
			return scoreValue(rows[i].vuln) > scoreValue(rows[j].vuln)
		})
	case SortBySeverity:
		sort.SliceStable(rows, func(i, j int) bool {
			return severityRank(rows[i].vuln) > severityRank(rows[j].vuln)
		})
	case SortByID:
		sort.SliceStable(rows, func(i, j int) bool {
			return lessID(rows[i].vuln.ID, rows[j].vuln.ID)
		})
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			return strings.ToLower(rows[i].vuln.Name) < strings.ToLower(rows[j].vuln.Name)
		})
	default:
		// preserve original order
	}
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	na, errA := strconv.ParseInt(a, 10, 64)
	nb, errB := strconv.ParseInt(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

// scoreValue extracts the base score, returning -1 if the record is unscored.
func scoreValue(v *types.Vulnerability) float64 {
	if v.CVSS.Scored() {
		return *v.CVSS.BaseScore
	}
	return -1
}

// formatScore formats the base score or returns "-" if unscored.
func formatScore(v *types.Vulnerability) string {
	if v.CVSS.Scored() {
		return fmt.Sprintf("%.1f", *v.CVSS.BaseScore)
	}
	return "-"
}

// truncateWords limits text to maxWords words, appending "..." if truncated.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
