package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/consultas-api/internal/model"
)

const usuarioColumns = `u.id, u.nombre, u.correo, u.telefono, u.created_at, u.updated_at`

type UsuarioRepository struct {
	db DBTX
}

func NewUsuarioRepository(db DBTX) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *UsuarioRepository) WithTx(tx pgx.Tx) *UsuarioRepository {
	return &UsuarioRepository{db: tx}
}

func scanUsuario(row pgx.CollectableRow) (model.Usuario, error) {
	var u model.Usuario
	err := row.Scan(&u.ID, &u.Nombre, &u.Correo, &u.Telefono, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a user and returns it with the generated id and timestamps.
func (r *UsuarioRepository) Create(ctx context.Context, in model.NuevoUsuario) (*model.Usuario, error) {
	const stmt = `
		INSERT INTO usuarios AS u (nombre, correo, telefono)
		VALUES ($1, $2, $3)
		RETURNING ` + usuarioColumns

	rows, err := r.db.Query(ctx, stmt, in.Nombre, in.Correo, in.Telefono)
	if err != nil {
		return nil, fmt.Errorf("insert usuario: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUsuario)
	if err != nil {
		return nil, fmt.Errorf("insert usuario: %w", err)
	}
	return &u, nil
}

// PorPrefijo returns the users whose name starts with prefijo, ignoring case.
// prefijo is matched literally; % and _ carry no wildcard meaning.
func (r *UsuarioRepository) PorPrefijo(ctx context.Context, prefijo string) ([]model.Usuario, error) {
	const stmt = `
		SELECT ` + usuarioColumns + `
		FROM usuarios u
		WHERE u.nombre ILIKE $1 ESCAPE '\'
		ORDER BY u.nombre, u.id`

	rows, err := r.db.Query(ctx, stmt, EscapeLike(prefijo)+"%")
	if err != nil {
		return nil, fmt.Errorf("usuarios por prefijo: %w", err)
	}

	usuarios, err := pgx.CollectRows(rows, scanUsuario)
	if err != nil {
		return nil, fmt.Errorf("usuarios por prefijo: %w", err)
	}
	return usuarios, nil
}
