// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/enricher"
	"github.com/bonial-oss/cvss-calc/internal/input"
	"github.com/bonial-oss/cvss-calc/internal/output"
)

// findingsOptions holds the findings command's flag values.
type findingsOptions struct {
	Format      string
	Output      string
	MinSeverity string
	Strict      bool
	SortBy      string
}

func newFindingsCommand(a *app) *cobra.Command {
	opts := &findingsOptions{}

	cmd := &cobra.Command{
		Use:   "findings [FILE|-]",
		Short: "Score a catalogue of vulnerability findings",
		Long: `Read a JSON or YAML catalogue of vulnerability findings from FILE or
stdin and attach the CVSS v3.1 base score, sub-scores and severity rating
to every record. Records with missing or invalid metrics are reported with
their partial vector instead of a score.

Usage:
  cvss-calc findings findings.json --format table
  cat findings.yaml | cvss-calc findings --format sarif -o findings.sarif`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFindings(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Format, "format", "json", "Output format: json, yaml, table, sarif")
	flags.StringVarP(&opts.Output, "output", "o", "", "Write to file instead of stdout")
	flags.StringVar(&opts.MinSeverity, "min-severity", "", "Only show findings rated SEVERITY or higher")
	flags.BoolVar(&opts.Strict, "strict", false, "Exit code 3 if any finding cannot be scored")
	flags.StringVar(&opts.SortBy, "sort-by", output.SortByScore,
		fmt.Sprintf("Sort table by: %s (empty keeps input order)", strings.Join(output.SortKeys, ", ")))

	return cmd
}

// runFindings orchestrates the scoring pipeline.
func (a *app) runFindings(cmd *cobra.Command, args []string, opts *findingsOptions) error {
	format, err := a.format(cmd, opts.Format, "json", "yaml", "table", "sarif")
	if err != nil {
		return err
	}
	if opts.SortBy != "" && !slices.Contains(output.SortKeys, opts.SortBy) {
		return usageError("unsupported sort key: %s", opts.SortBy)
	}

	cfg := enricher.Config{
		FailOn: a.cfg.FailOnSeverity,
		Strict: opts.Strict,
	}
	if opts.MinSeverity != "" {
		sev, err := cvss.ParseSeverity(opts.MinSeverity)
		if err != nil {
			return usageError("bad min-severity value: %v", err)
		}
		cfg.MinSeverity = &sev
	}

	data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return usageError("no input provided")
	}

	parsed, err := input.Parse(data)
	if err != nil {
		return usageError("parsing input: %v", err)
	}
	a.log.Debugf("read %d records as %s", len(parsed.Catalogue.Vulnerabilities), parsed.Format)

	result, err := enricher.New(a.log.WithField("prefix", "enricher")).Enrich(parsed.Catalogue, cfg)
	if err != nil {
		if errors.Is(err, cvss.ErrInvalidMetricSelection) {
			return &ExitError{Code: exitInvalidSelection, Message: err.Error()}
		}
		return fmt.Errorf("scoring findings: %w", err)
	}
	if result.Invalid > 0 {
		a.log.Warnf("%d of %d findings cannot be scored", result.Invalid, len(result.Catalogue.Vulnerabilities))
	}

	err = writeOutput(cmd, opts.Output, func(w io.Writer) error {
		switch format {
		case "yaml":
			return output.WriteYAML(w, result.Catalogue)
		case "table":
			return output.WriteTable(w, result.Catalogue, output.TableConfig{
				SortBy:     opts.SortBy,
				IsTerminal: output.IsOutputToTerminal(w),
			})
		case "sarif":
			return output.WriteJSON(w, enricher.ToSARIF(result.Catalogue, Version))
		default:
			return output.WriteJSON(w, result.Catalogue)
		}
	})
	if err != nil {
		return err
	}

	if result.PolicyViolation {
		return &ExitError{Code: exitPolicyViolation, Message: "policy violation detected"}
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, usageError("reading input: %v", err)
	}
	return data, nil
}
