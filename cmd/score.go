// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/output"
)

// metricFlagNames maps each metric group to its command-line flag.
var metricFlagNames = map[cvss.Group]string{
	cvss.AttackVector:       "av",
	cvss.AttackComplexity:   "ac",
	cvss.PrivilegesRequired: "pr",
	cvss.UserInteraction:    "ui",
	cvss.Scope:              "scope",
	cvss.Confidentiality:    "c",
	cvss.Integrity:          "i",
	cvss.Availability:       "a",
}

type metricFlags map[cvss.Group]*string

func addMetricFlags(flags *pflag.FlagSet) metricFlags {
	mf := make(metricFlags, len(metricFlagNames))
	for _, m := range cvss.Metrics() {
		mf[m.Group] = flags.String(metricFlagNames[m.Group], "",
			fmt.Sprintf("%s (%s)", m.Name, strings.Join(m.Values(), ", ")))
	}
	return mf
}

// apply returns sel with every metric flag that was set on the command line
// layered on top.
func (mf metricFlags) apply(flags *pflag.FlagSet, sel cvss.Selection) cvss.Selection {
	for group, value := range mf {
		if flags.Changed(metricFlagNames[group]) {
			sel = sel.With(group, strings.ToUpper(strings.TrimSpace(*value)))
		}
	}
	return sel
}

type scoreOptions struct {
	Format string
}

// scoreOutput is the JSON form of a single evaluation.
type scoreOutput struct {
	BaseScore           float64       `json:"baseScore"`
	Severity            cvss.Severity `json:"severity"`
	Vector              string        `json:"vector"`
	ExploitabilityScore float64       `json:"exploitabilityScore"`
	ImpactScore         float64       `json:"impactScore"`
	Label               string        `json:"label"`
}

func newScoreCommand(a *app) *cobra.Command {
	opts := &scoreOptions{}
	var mf metricFlags

	cmd := &cobra.Command{
		Use:   "score [VECTOR]",
		Short: "Calculate the base score of a metric selection",
		Long: `Calculate the CVSS v3.1 base score, sub-scores and severity rating.

The selection starts from VECTOR when given, otherwise from the default
selection CVSS:3.1/AV:A/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H. Metric flags
override individual groups.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScore(cmd, args, mf, opts)
		},
	}

	flags := cmd.Flags()
	mf = addMetricFlags(flags)
	flags.StringVar(&opts.Format, "format", "text", "Output format: text, json, table")

	return cmd
}

func (a *app) runScore(cmd *cobra.Command, args []string, mf metricFlags, opts *scoreOptions) error {
	format, err := a.format(cmd, opts.Format, "text", "json", "table")
	if err != nil {
		return err
	}

	sel := cvss.DefaultSelection()
	if len(args) == 1 {
		sel, err = cvss.ParseVector(args[0])
		if err != nil {
			return &ExitError{Code: exitInvalidSelection, Message: err.Error()}
		}
	}
	sel = mf.apply(cmd.Flags(), sel)

	res, err := cvss.Evaluate(sel)
	if err != nil {
		return &ExitError{Code: exitInvalidSelection, Message: fmt.Sprintf("%s: %v", cvss.BuildVector(sel), err)}
	}
	bd, err := cvss.SubScores(sel)
	if err != nil {
		return &ExitError{Code: exitInvalidSelection, Message: err.Error()}
	}
	a.log.WithFields(logrus.Fields{
		"vector":         res.Vector,
		"exploitability": bd.ExploitabilityScore,
		"impact":         bd.ImpactScore,
	}).Infof("scored %s", res.Label())

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		err = output.WriteJSON(w, scoreOutput{
			BaseScore:           res.BaseScore,
			Severity:            res.Severity,
			Vector:              res.Vector,
			ExploitabilityScore: bd.ExploitabilityScore,
			ImpactScore:         bd.ImpactScore,
			Label:               res.Label(),
		})
	case "table":
		err = output.WriteResultTable(w, res, bd, output.TableConfig{IsTerminal: output.IsOutputToTerminal(w)})
	default:
		_, err = fmt.Fprintf(w, "%s %s\n", res.Label(), res.Vector)
	}
	if err != nil {
		return err
	}

	if a.cfg.FailOnSeverity != nil && res.Severity >= *a.cfg.FailOnSeverity {
		return &ExitError{
			Code:    exitPolicyViolation,
			Message: fmt.Sprintf("policy violation: severity %s reaches %s", res.Severity, *a.cfg.FailOnSeverity),
		}
	}
	return nil
}
