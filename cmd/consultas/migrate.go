package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/consultas-api/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			return database.Migrate(cmd.Context(), &rt.logger, rt.cfg)
		},
	}
}
