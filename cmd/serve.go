// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bonial-oss/cvss-calc/internal/server"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator over HTTP",
		Long: `Serve the calculator API until interrupted:

  POST /api/v1/cvss/evaluate   score {"metrics": {...}} or {"vector": "..."}
  POST /api/v1/cvss/vector     build a (partial) vector from {"metrics": {...}}
  GET  /api/v1/cvss/metrics    metric groups and options
  GET  /api/v1/cvss/severities severity rating scale
  GET  /api/v1/cvss/default    score of the default selection
  GET  /healthz                liveness
  GET  /metrics                Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(a.cfg.Server, a.log).Run(ctx)
		},
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	mustBind(a.v, "server.addr", cmd.Flags().Lookup("addr"))

	return cmd
}
