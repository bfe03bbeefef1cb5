// Package repository handles all interactions with the database.
//
// It contains the raw SQL for every consulta and the inserts used by the
// seeder, abstracting SQL away from the service layer. Every statement uses
// bound parameters, including the ones the service calls with constants.
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, pgx.Tx and pgxmock.
//
// Repositories depend on it instead of the pool so the seeder can run them
// inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE metacharacters of s so it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
