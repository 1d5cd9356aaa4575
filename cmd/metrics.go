// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
	"github.com/bonial-oss/cvss-calc/internal/output"
)

func newMetricsCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show the base metric groups, their options and the severity scale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := a.format(cmd, format, "table", "json")
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if f == "json" {
				return output.WriteJSON(w, struct {
					Metrics    []cvss.Metric `json:"metrics"`
					Severities []cvss.Band   `json:"severities"`
				}{cvss.Metrics(), cvss.Bands()})
			}
			return output.WriteMetricsTable(w, output.TableConfig{IsTerminal: output.IsOutputToTerminal(w)})
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json")
	return cmd
}
