package main

import (
	"fmt"
	"os"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"liftdesk/internal/config"
)

type configInitOptions struct {
	Output string
	Force  bool
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or write the config file",
	}
	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.configSvc.Path())
			return err
		},
	})
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var opts configInitOptions

	cmd := &cobra.Command{
		Use:   "init [--output <file>] [--force]",
		Short: "Write the built-in defaults to a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.Output
			if path == "" {
				path = a.configSvc.Path()
			}
			if _, err := os.Stat(path); err == nil && !opts.Force {
				return errors.Errorf("%s already exists, pass --force to overwrite", path)
			}

			cfg := config.DefaultConfig()
			var err error
			if opts.Output == "" {
				err = a.configSvc.Save(cfg)
			} else {
				err = a.configSvc.SaveToPath(cfg, path)
			}
			if err != nil {
				return errors.Wrap(err, "write config")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to this file instead of the active config path")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "overwrite an existing file")
	return cmd
}
