// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/sigil-dev/litegraph/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the database",
		Long: "Write the commented default configuration to --config (or ~/.config/litegraph/litegraph.yaml) " +
			"and create the database schema at storage.path. An existing config file is kept unless --force is given.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigFile: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			force, _ := cmd.Flags().GetBool("force")

			path, _ := cmd.Root().PersistentFlags().GetString("config")
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			written, err := config.WriteDefault(path, force)
			if err != nil {
				return err
			}
			if written {
				_, _ = fmt.Fprintf(out, "Wrote config to %s\n", path)
			} else {
				_, _ = fmt.Fprintf(out, "Config %s already exists (use --force to overwrite)\n", path)
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			if err := c.Close(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Database ready at %s\n", a.cfg.Storage.Path)
			return err
		},
	}

	cmd.Flags().Bool("force", false, "overwrite an existing config file")

	return cmd
}
