package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sanjitr11/semiotic-logo-generator/internal/bootstrap"
	"github.com/sanjitr11/semiotic-logo-generator/internal/storage/postgres"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
				return err
			}

			cfg := ctx.loadConfig()
			if err := cfg.Database.Validate(); err != nil {
				return err
			}
			if err := bootstrap.MigrateDB(cmd.Context(), &cfg.Database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")

	return cmd
}
