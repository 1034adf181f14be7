// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/sigil-dev/litegraph/internal/client"
	"github.com/sigil-dev/litegraph/internal/config"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// skipConfigFile marks commands that must not read an existing config file.
const skipConfigFile = "litegraph/skip-config-file"

// app is the state shared by every subcommand of one root command.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
	output outputFormat
}

// NewRootCmd creates the root litegraph command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "litegraph",
		Short:         "Embedded multi-tenant property graph store",
		Long:          "litegraph stores tenants, graphs, nodes and edges in a single SQLite file and answers traversal and route queries over them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("db", "", "path to the database file (overrides storage.path)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringP("output", "o", string(outputTable), "output format: table, json or yaml")

	root.AddCommand(
		newInitCmd(a),
		newTenantCmd(a),
		newGraphCmd(a),
		newNodeCmd(a),
		newEdgeCmd(a),
		newRouteCmd(a),
		newAdjacencyCmd(a, "parents", "List nodes with an edge into the given node"),
		newAdjacencyCmd(a, "children", "List nodes the given node has an edge to"),
		newAdjacencyCmd(a, "neighbors", "List nodes connected to the given node in either direction"),
		newStatsCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads configuration with the standard precedence
// (flag > env > file > defaults) and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	if err := a.v.BindPFlag("storage.path", flags.Lookup("db")); err != nil {
		return lgerr.Errorf(lgerr.CodeCLISetupFailure, "binding db flag: %w", err)
	}

	output, _ := flags.GetString("output")
	format, err := parseOutputFormat(output)
	if err != nil {
		return err
	}
	a.output = format

	path, err := a.configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.LoadWith(a.v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbose, _ := flags.GetBool("verbose")
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging, verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	slog.SetDefault(logger)
	return nil
}

// configPath returns the file to load: --config when given, otherwise the
// default location when a file exists there.
func (a *app) configPath(cmd *cobra.Command) (string, error) {
	if cmd.Annotations[skipConfigFile] == "true" {
		return "", nil
	}
	if path, _ := cmd.Root().PersistentFlags().GetString("config"); path != "" {
		return path, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		slog.Debug("no default config location", "error", err)
		return "", nil
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// newLogger builds the text or JSON handler named by the logging section.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// open connects to the configured store. Callers must Close the client.
func (a *app) open() (*client.Client, error) {
	return client.Open(a.cfg.StorageConfig(), client.WithLogger(a.logger.With("component", "client")))
}
