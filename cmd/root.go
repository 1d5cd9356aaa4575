// SPDX-FileCopyrightText: 2026 Bonial International GmbH
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bonial-oss/cvss-calc/internal/config"
	"github.com/bonial-oss/cvss-calc/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Process exit codes.
const (
	exitPolicyViolation  = 1
	exitUsage            = 2
	exitInvalidSelection = 3
)

// ExitError signals a non-zero exit code with an optional message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: exitUsage, Message: fmt.Sprintf(format, args...)}
}

// app carries the state shared by all subcommands. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	v          *viper.Viper
	configPath string
	logFormat  string

	cfg *config.Application
	log *logrus.Logger
}

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:     config.ApplicationName,
		Short:   "Calculate CVSS v3.1 base scores and rate vulnerability findings",
		Version: Version,
		Long: `cvss-calc computes CVSS v3.1 base scores from the eight base metrics or a
vector string, classifies them into severity ratings and scores whole
catalogues of vulnerability findings.

Usage:
  cvss-calc score CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H
  cvss-calc score --av N --pr L --format table
  cvss-calc findings findings.json --format table --fail-on high
  cvss-calc serve --addr :8080`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Application config file")
	flags.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
	flags.BoolP("quiet", "q", false, "Suppress all log output")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format: text, json")
	flags.String("fail-on", "", "Exit code 1 if any score reaches SEVERITY (none, low, medium, high, critical)")

	mustBind(a.v, "verbosity", flags.Lookup("verbose"))
	mustBind(a.v, "quiet", flags.Lookup("quiet"))
	mustBind(a.v, "fail-on", flags.Lookup("fail-on"))

	cmd.AddCommand(
		newScoreCommand(a),
		newVectorCommand(a),
		newFindingsCommand(a),
		newMetricsCommand(a),
		newServeCommand(a),
	)
	return cmd
}

// load reads the configuration and builds the logger.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	switch a.logFormat {
	case "text", "json":
	default:
		return usageError("unsupported log format: %s", a.logFormat)
	}
	if cmd.Flags().Changed("log-format") {
		a.v.Set("log.structured", a.logFormat == "json")
	}

	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}
	a.cfg = cfg
	a.log = log.New(log.Config{
		Level:      cfg.Log.LevelOpt,
		Structured: cfg.Log.Structured,
		Output:     cmd.ErrOrStderr(),
	})
	if cfg.ConfigPath != "" {
		a.log.WithField("path", cfg.ConfigPath).Debug("using config file")
	}
	a.log.Tracef("application config:\n%s", cfg)
	return nil
}

// format picks the output format: the command's flag when given, else the
// configured format when the command supports it, else the command default.
func (a *app) format(cmd *cobra.Command, flagValue string, allowed ...string) (string, error) {
	if cmd.Flags().Changed("format") {
		f := strings.ToLower(flagValue)
		if !slices.Contains(allowed, f) {
			return "", usageError("unsupported output format: %s (want one of %s)", flagValue, strings.Join(allowed, ", "))
		}
		return f, nil
	}
	if f := strings.ToLower(a.cfg.Format); f != "" {
		if slices.Contains(allowed, f) {
			return f, nil
		}
		a.log.Debugf("configured format %q is not supported by %s, using %s", a.cfg.Format, cmd.Name(), flagValue)
	}
	return flagValue, nil
}

// createFile opens the file behind --output.
var createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }

// writeOutput runs write against the command's stdout, or against a created
// file for path. A failure to close the file is returned when the write
// itself succeeded.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return write(f)
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}
