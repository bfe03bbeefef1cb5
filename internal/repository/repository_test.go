package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/consultas-api/internal/model"
)

var (
	pedidoCols  = []string{"id", "producto", "cantidad", "total", "id_usuario", "created_at", "updated_at"}
	usuarioCols = []string{"id", "nombre", "correo", "telefono", "created_at", "updated_at"}
	seededAt    = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "R", EscapeLike("R"))
	assert.Equal(t, `50\%`, EscapeLike("50%"))
	assert.Equal(t, `a\_b`, EscapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, EscapeLike(`c:\tmp`))
}

func TestPedidoRepository_PorUsuario(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pedidos p WHERE p.id_usuario = $1 ORDER BY p.id")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(pedidoCols).
			AddRow(int64(1), "Laptop Dell", int32(1), money("250.00"), int64(2), seededAt, seededAt).
			AddRow(int64(2), "Mouse Logitech", int32(2), money("50.00"), int64(2), seededAt, seededAt))

	pedidos, err := repo.PorUsuario(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pedidos, 2)
	assert.Equal(t, "Laptop Dell", pedidos[0].Producto)
	assert.True(t, pedidos[1].Total.Equal(money("50")))
	assert.Equal(t, int32(2), pedidos[1].Cantidad)
}

func TestPedidoRepository_PorUsuario_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery("FROM pedidos p").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(pedidoCols))

	pedidos, err := repo.PorUsuario(context.Background(), 99)
	require.NoError(t, err)
	assert.NotNil(t, pedidos)
	assert.Empty(t, pedidos)
}

func TestPedidoRepository_EnRango(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.total BETWEEN $1 AND $2")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(pedidoCols).
			AddRow(int64(1), "Laptop Dell", int32(1), money("250.00"), int64(2), seededAt, seededAt).
			AddRow(int64(3), "Teclado Mecánico", int32(1), money("150.00"), int64(1), seededAt, seededAt))

	pedidos, err := repo.EnRango(context.Background(), money("100"), money("250"))
	require.NoError(t, err)
	assert.Len(t, pedidos, 2)
}

func TestPedidoRepository_ConUsuarios(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN usuarios u ON u.id = p.id_usuario")).
		WillReturnRows(pgxmock.NewRows([]string{"producto", "cantidad", "total", "nombre_usuario", "correo_usuario"}).
			AddRow("Laptop Dell", int32(1), money("250.00"), "María López", "maria@example.com"))

	filas, err := repo.ConUsuarios(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "María López", filas[0].NombreUsuario)
	assert.Equal(t, "maria@example.com", filas[0].CorreoUsuario)
}

func TestPedidoRepository_Contar(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM pedidos WHERE id_usuario = $1")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))

	total, err := repo.Contar(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPedidoRepository_Suma(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(SUM(total), 0) FROM pedidos")).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(money("1045.00")))

	suma, err := repo.Suma(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1045.00", suma.StringFixed(2))
}

func TestPedidoRepository_OrdenadosDesc(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	cols := append(append([]string{}, pedidoCols...), usuarioCols...)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.total DESC, p.id ASC")).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(4), "Monitor Samsung", int32(1), money("300.00"), int64(5), seededAt, seededAt,
				int64(5), "Ricardo Fernández", "ricardo@example.com", "2147-0105", seededAt, seededAt))

	pedidos, err := repo.OrdenadosDesc(context.Background())
	require.NoError(t, err)
	require.Len(t, pedidos, 1)
	assert.Equal(t, "Monitor Samsung", pedidos[0].Producto)
	assert.Equal(t, "Ricardo Fernández", pedidos[0].Usuario.Nombre)
	assert.Equal(t, pedidos[0].IDUsuario, pedidos[0].Usuario.ID)
}

func TestPedidoRepository_MasEconomico(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	cols := append(append([]string{}, pedidoCols...), usuarioCols...)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.total ASC, p.id ASC LIMIT 1")).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(2), "Mouse Logitech", int32(2), money("50.00"), int64(2), seededAt, seededAt,
				int64(2), "María López", "maria@example.com", "7458-0102", seededAt, seededAt))

	pedido, err := repo.MasEconomico(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pedido)
	assert.Equal(t, "Mouse Logitech", pedido.Producto)
	assert.Equal(t, int64(2), pedido.Usuario.ID)
}

func TestPedidoRepository_MasEconomico_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	cols := append(append([]string{}, pedidoCols...), usuarioCols...)
	mock.ExpectQuery("LIMIT 1").WillReturnRows(pgxmock.NewRows(cols))

	pedido, err := repo.MasEconomico(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pedido)
}

func TestPedidoRepository_Agrupados(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY u.nombre, p.id")).
		WillReturnRows(pgxmock.NewRows([]string{"nombre", "producto", "cantidad", "total"}).
			AddRow("Ana Rodríguez", "Disco Duro Externo", int32(1), money("95.00")).
			AddRow("María López", "Laptop Dell", int32(1), money("250.00")))

	filas, err := repo.Agrupados(context.Background())
	require.NoError(t, err)
	require.Len(t, filas, 2)
	assert.Equal(t, "Ana Rodríguez", filas[0].Nombre)
}

func TestPedidoRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	in := model.NuevoPedido{Producto: "Webcam HD", Cantidad: 1, Total: money("80.00"), IDUsuario: 3}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO pedidos AS p (producto, cantidad, total, id_usuario)")).
		WithArgs("Webcam HD", int32(1), pgxmock.AnyArg(), int64(3)).
		WillReturnRows(pgxmock.NewRows(pedidoCols).
			AddRow(int64(8), "Webcam HD", int32(1), money("80.00"), int64(3), seededAt, seededAt))

	pedido, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pedido.ID)
	assert.Equal(t, seededAt, pedido.CreatedAt)
}

func TestPedidoRepository_Create_ForeignKey(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	fk := &pgconn.PgError{Code: "23503", TableName: "pedidos", ColumnName: "id_usuario"}
	mock.ExpectQuery("INSERT INTO pedidos").
		WithArgs("Webcam HD", int32(1), pgxmock.AnyArg(), int64(42)).
		WillReturnError(fk)

	_, err := repo.Create(context.Background(), model.NuevoPedido{Producto: "Webcam HD", Cantidad: 1, Total: money("80"), IDUsuario: 42})
	require.Error(t, err)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}

func TestPedidoRepository_QueryError(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectQuery("FROM pedidos p").WillReturnError(context.DeadlineExceeded)

	_, err := repo.OrdenadosDesc(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPedidoRepository_Truncate(t *testing.T) {
	mock := newMock(t)
	repo := NewPedidoRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("TRUNCATE pedidos, usuarios RESTART IDENTITY CASCADE")).
		WillReturnResult(pgxmock.NewResult("TRUNCATE", 0))

	assert.NoError(t, repo.Truncate(context.Background()))
}

func TestUsuarioRepository_PorPrefijo(t *testing.T) {
	mock := newMock(t)
	repo := NewUsuarioRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.nombre ILIKE $1 ESCAPE '\'`)).
		WithArgs("R%").
		WillReturnRows(pgxmock.NewRows(usuarioCols).
			AddRow(int64(5), "Ricardo Fernández", "ricardo@example.com", "2147-0105", seededAt, seededAt).
			AddRow(int64(1), "Roberto García", "roberto@example.com", "2452-0101", seededAt, seededAt))

	usuarios, err := repo.PorPrefijo(context.Background(), "R")
	require.NoError(t, err)
	require.Len(t, usuarios, 2)
	assert.Equal(t, "Ricardo Fernández", usuarios[0].Nombre)
	assert.Equal(t, "Roberto García", usuarios[1].Nombre)
}

func TestUsuarioRepository_PorPrefijo_EscapesWildcards(t *testing.T) {
	mock := newMock(t)
	repo := NewUsuarioRepository(mock)

	mock.ExpectQuery("ILIKE").
		WithArgs(`\%\_%`).
		WillReturnRows(pgxmock.NewRows(usuarioCols))

	usuarios, err := repo.PorPrefijo(context.Background(), "%_")
	require.NoError(t, err)
	assert.Empty(t, usuarios)
}

func TestUsuarioRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewUsuarioRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO usuarios AS u (nombre, correo, telefono)")).
		WithArgs("Roberto García", "roberto@example.com", "2452-0101").
		WillReturnRows(pgxmock.NewRows(usuarioCols).
			AddRow(int64(1), "Roberto García", "roberto@example.com", "2452-0101", seededAt, seededAt))

	u, err := repo.Create(context.Background(), model.NuevoUsuario{
		Nombre: "Roberto García", Correo: "roberto@example.com", Telefono: "2452-0101",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}
