package main

import (
	"github.com/spf13/cobra"

	"github.com/deppfellow/consultas-api/internal/repository"
	"github.com/deppfellow/consultas-api/internal/seeder"
	"github.com/deppfellow/consultas-api/internal/server"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Reset usuarios and pedidos to the demo data",
		Long: "Truncates both tables, inserts the demo usuarios and pedidos, " +
			"flushes the result cache and enqueues a cache warm-up.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			srv, err := server.New(rt.cfg, &rt.logger, rt.loggerService)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(srv) }()

			var jobs seeder.WarmEnqueuer
			if srv.Job != nil {
				jobs = srv.Job
			}

			s := seeder.New(srv.DB.Pool, repository.NewRepositories(srv), srv.Cache, jobs, &rt.logger)
			res, err := s.Run(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("seeded %d usuarios and %d pedidos\n", res.Usuarios, res.Pedidos)
			return nil
		},
	}
}
