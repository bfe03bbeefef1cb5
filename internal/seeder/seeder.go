// Package seeder resets the usuarios and pedidos tables to the demo data set.
package seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/deppfellow/consultas-api/internal/lib/cache"
	"github.com/deppfellow/consultas-api/internal/repository"
)

// TxStarter is satisfied by *pgxpool.Pool and by pgxmock pools.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WarmEnqueuer is satisfied by *job.JobService.
type WarmEnqueuer interface {
	EnqueueWarm(ctx context.Context, reason string) error
}

type Seeder struct {
	db     TxStarter
	repos  *repository.Repositories
	cache  *cache.Cache
	jobs   WarmEnqueuer
	logger *zerolog.Logger
}

// Result reports how many rows were inserted.
type Result struct {
	Usuarios int
	Pedidos  int
}

// New builds a Seeder. cache and jobs may be nil.
func New(db TxStarter, repos *repository.Repositories, c *cache.Cache, jobs WarmEnqueuer, logger *zerolog.Logger) *Seeder {
	return &Seeder{db: db, repos: repos, cache: c, jobs: jobs, logger: logger}
}

// Run truncates both tables and inserts the demo data in one transaction.
// Ids restart at 1, so the pedidos' id_usuario values line up with Usuarios.
// Once committed the cache is flushed and, when a job client is available, a
// warm-up is enqueued.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("starting seed transaction: %w", err)
	}

	res, err := s.insert(ctx, tx)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Warn().Err(rbErr).Msg("rolling back seed")
		}
		return Result{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("committing seed: %w", err)
	}

	s.logger.Info().
		Int("usuarios", res.Usuarios).
		Int("pedidos", res.Pedidos).
		Msg("database seeded")

	if _, err := s.cache.Flush(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("flushing cache after seed")
	}

	if s.jobs != nil {
		if err := s.jobs.EnqueueWarm(ctx, "seed"); err != nil {
			s.logger.Warn().Err(err).Msg("enqueueing cache warm after seed")
		}
	}

	return res, nil
}

func (s *Seeder) insert(ctx context.Context, tx pgx.Tx) (Result, error) {
	var res Result
	usuarios := s.repos.Usuarios.WithTx(tx)
	pedidos := s.repos.Pedidos.WithTx(tx)

	if err := pedidos.Truncate(ctx); err != nil {
		return res, err
	}

	for _, in := range Usuarios {
		u, err := usuarios.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("seeding usuario %q: %w", in.Correo, err)
		}
		s.logger.Debug().Int64("id", u.ID).Str("nombre", u.Nombre).Msg("usuario seeded")
		res.Usuarios++
	}

	for _, in := range Pedidos {
		p, err := pedidos.Create(ctx, in)
		if err != nil {
			return res, fmt.Errorf("seeding pedido %q: %w", in.Producto, err)
		}
		s.logger.Debug().Int64("id", p.ID).Str("producto", p.Producto).Msg("pedido seeded")
		res.Pedidos++
	}

	return res, nil
}
