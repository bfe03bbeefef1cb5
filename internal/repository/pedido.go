package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/model"
)

const pedidoColumns = `p.id, p.producto, p.cantidad, p.total, p.id_usuario, p.created_at, p.updated_at`

type PedidoRepository struct {
	db DBTX
}

func NewPedidoRepository(db DBTX) *PedidoRepository {
	return &PedidoRepository{db: db}
}

// WithTx returns a copy bound to tx.
func (r *PedidoRepository) WithTx(tx pgx.Tx) *PedidoRepository {
	return &PedidoRepository{db: tx}
}

func scanPedido(row pgx.CollectableRow) (model.Pedido, error) {
	var p model.Pedido
	err := row.Scan(&p.ID, &p.Producto, &p.Cantidad, &p.Total, &p.IDUsuario, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanPedidoConUsuario(row pgx.CollectableRow) (model.PedidoConUsuario, error) {
	var p model.PedidoConUsuario
	err := row.Scan(
		&p.ID, &p.Producto, &p.Cantidad, &p.Total, &p.IDUsuario, &p.CreatedAt, &p.UpdatedAt,
		&p.Usuario.ID, &p.Usuario.Nombre, &p.Usuario.Correo, &p.Usuario.Telefono, &p.Usuario.CreatedAt, &p.Usuario.UpdatedAt,
	)
	return p, err
}

// Create inserts an order and returns it with the generated id and timestamps.
func (r *PedidoRepository) Create(ctx context.Context, in model.NuevoPedido) (*model.Pedido, error) {
	const stmt = `
		INSERT INTO pedidos AS p (producto, cantidad, total, id_usuario)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + pedidoColumns

	rows, err := r.db.Query(ctx, stmt, in.Producto, in.Cantidad, in.Total, in.IDUsuario)
	if err != nil {
		return nil, fmt.Errorf("insert pedido: %w", err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPedido)
	if err != nil {
		return nil, fmt.Errorf("insert pedido: %w", err)
	}
	return &p, nil
}

// PorUsuario returns the orders owned by idUsuario, by id.
func (r *PedidoRepository) PorUsuario(ctx context.Context, idUsuario int64) ([]model.Pedido, error) {
	const stmt = `
		SELECT ` + pedidoColumns + `
		FROM pedidos p
		WHERE p.id_usuario = $1
		ORDER BY p.id`

	return r.listPedidos(ctx, "pedidos por usuario", stmt, idUsuario)
}

// EnRango returns the orders with min <= total <= max, by id.
func (r *PedidoRepository) EnRango(ctx context.Context, min, max decimal.Decimal) ([]model.Pedido, error) {
	const stmt = `
		SELECT ` + pedidoColumns + `
		FROM pedidos p
		WHERE p.total BETWEEN $1 AND $2
		ORDER BY p.id`

	return r.listPedidos(ctx, "pedidos en rango", stmt, min, max)
}

func (r *PedidoRepository) listPedidos(ctx context.Context, op, stmt string, args ...any) ([]model.Pedido, error) {
	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pedidos, err := pgx.CollectRows(rows, scanPedido)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pedidos, nil
}

// ConUsuarios returns the pedidos x usuarios inner join projection, by order id.
func (r *PedidoRepository) ConUsuarios(ctx context.Context) ([]model.PedidoUsuarioFila, error) {
	const stmt = `
		SELECT p.producto, p.cantidad, p.total, u.nombre AS nombre_usuario, u.correo AS correo_usuario
		FROM pedidos p
		INNER JOIN usuarios u ON u.id = p.id_usuario
		ORDER BY p.id`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("pedidos con usuarios: %w", err)
	}

	filas, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PedidoUsuarioFila, error) {
		var f model.PedidoUsuarioFila
		err := row.Scan(&f.Producto, &f.Cantidad, &f.Total, &f.NombreUsuario, &f.CorreoUsuario)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("pedidos con usuarios: %w", err)
	}
	return filas, nil
}

// Contar returns how many orders idUsuario owns. Unknown users count 0.
func (r *PedidoRepository) Contar(ctx context.Context, idUsuario int64) (int64, error) {
	const stmt = `SELECT COUNT(*) FROM pedidos WHERE id_usuario = $1`

	var total int64
	if err := r.db.QueryRow(ctx, stmt, idUsuario).Scan(&total); err != nil {
		return 0, fmt.Errorf("contar pedidos: %w", err)
	}
	return total, nil
}

// OrdenadosDesc returns every order with its owner, highest total first.
// Equal totals keep ascending id order.
func (r *PedidoRepository) OrdenadosDesc(ctx context.Context) ([]model.PedidoConUsuario, error) {
	const stmt = `
		SELECT ` + pedidoColumns + `, ` + usuarioColumns + `
		FROM pedidos p
		INNER JOIN usuarios u ON u.id = p.id_usuario
		ORDER BY p.total DESC, p.id ASC`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("pedidos ordenados: %w", err)
	}

	pedidos, err := pgx.CollectRows(rows, scanPedidoConUsuario)
	if err != nil {
		return nil, fmt.Errorf("pedidos ordenados: %w", err)
	}
	return pedidos, nil
}

// Suma returns the sum of every order total, 0 when there are none.
func (r *PedidoRepository) Suma(ctx context.Context) (decimal.Decimal, error) {
	const stmt = `SELECT COALESCE(SUM(total), 0) FROM pedidos`

	var suma decimal.Decimal
	if err := r.db.QueryRow(ctx, stmt).Scan(&suma); err != nil {
		return decimal.Zero, fmt.Errorf("suma pedidos: %w", err)
	}
	return suma, nil
}

// MasEconomico returns the order with the lowest total and its owner.
// Ties go to the lowest id. It returns nil, nil when there are no orders.
func (r *PedidoRepository) MasEconomico(ctx context.Context) (*model.PedidoConUsuario, error) {
	const stmt = `
		SELECT ` + pedidoColumns + `, ` + usuarioColumns + `
		FROM pedidos p
		INNER JOIN usuarios u ON u.id = p.id_usuario
		ORDER BY p.total ASC, p.id ASC
		LIMIT 1`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("pedido mas economico: %w", err)
	}

	p, err := pgx.CollectOneRow(rows, scanPedidoConUsuario)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pedido mas economico: %w", err)
	}
	return &p, nil
}

// Agrupados returns the rows to group by user name, sorted by name then order id.
func (r *PedidoRepository) Agrupados(ctx context.Context) ([]model.PedidoAgrupadoFila, error) {
	const stmt = `
		SELECT u.nombre, p.producto, p.cantidad, p.total
		FROM pedidos p
		INNER JOIN usuarios u ON u.id = p.id_usuario
		ORDER BY u.nombre, p.id`

	rows, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("pedidos agrupados: %w", err)
	}

	filas, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.PedidoAgrupadoFila, error) {
		var f model.PedidoAgrupadoFila
		err := row.Scan(&f.Nombre, &f.Producto, &f.Cantidad, &f.Total)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("pedidos agrupados: %w", err)
	}
	return filas, nil
}

// Truncate removes every order and user and restarts both id sequences.
func (r *PedidoRepository) Truncate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE pedidos, usuarios RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}
