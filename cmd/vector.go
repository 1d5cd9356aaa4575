// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bonial-oss/cvss-calc/internal/cvss"
)

func newVectorCommand(a *app) *cobra.Command {
	var mf metricFlags
	var complete bool

	cmd := &cobra.Command{
		Use:   "vector",
		Short: "Build a vector string from metric flags",
		Long: `Build a CVSS v3.1 vector string from the given metric flags. Groups
without a flag are shown as "_".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel := mf.apply(cmd.Flags(), cvss.Selection{})
			vector := cvss.BuildVector(sel)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), vector); err != nil {
				return err
			}
			if err := sel.Validate(); err != nil {
				if complete {
					return &ExitError{Code: exitInvalidSelection, Message: err.Error()}
				}
				a.log.WithField("vector", vector).Infof("incomplete selection: %v", err)
			}
			return nil
		},
	}

	mf = addMetricFlags(cmd.Flags())
	cmd.Flags().BoolVar(&complete, "complete", false, "Exit code 3 unless every group is set to a valid option")

	return cmd
}
