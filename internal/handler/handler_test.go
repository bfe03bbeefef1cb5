package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/consultas-api/internal/config"
	"github.com/deppfellow/consultas-api/internal/errs"
	"github.com/deppfellow/consultas-api/internal/middleware"
	"github.com/deppfellow/consultas-api/internal/model"
	"github.com/deppfellow/consultas-api/internal/server"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeConsultas struct {
	err          error
	sinPedidos   bool
	ultimoUserID int64
	ultimoMin    decimal.Decimal
	ultimoMax    decimal.Decimal
	prefijo      string
	registrado   *model.NuevoPedido
}

var (
	roberto = model.Usuario{ID: 1, Nombre: "Roberto García", Correo: "roberto@example.com", Telefono: "2452-0101"}
	maria   = model.Usuario{ID: 2, Nombre: "María López", Correo: "maria@example.com", Telefono: "7458-0102"}
	laptop  = model.Pedido{ID: 1, Producto: "Laptop Dell", Cantidad: 1, Total: dec("250"), IDUsuario: 2}
	mouse   = model.Pedido{ID: 2, Producto: "Mouse Logitech", Cantidad: 2, Total: dec("50"), IDUsuario: 2}
)

func (f *fakeConsultas) PedidosPorUsuario(_ context.Context, id int64) ([]model.Pedido, error) {
	f.ultimoUserID = id
	if f.err != nil {
		return nil, f.err
	}
	if id != 2 {
		return []model.Pedido{}, nil
	}
	return []model.Pedido{laptop, mouse}, nil
}

func (f *fakeConsultas) PedidosUsuario2(ctx context.Context) ([]model.Pedido, error) {
	return f.PedidosPorUsuario(ctx, 2)
}

func (f *fakeConsultas) PedidosConUsuarios(context.Context) ([]model.PedidoUsuarioFila, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.PedidoUsuarioFila{
		{Producto: laptop.Producto, Cantidad: 1, Total: laptop.Total, NombreUsuario: maria.Nombre, CorreoUsuario: maria.Correo},
	}, nil
}

func (f *fakeConsultas) PedidosEnRango(_ context.Context, min, max decimal.Decimal) ([]model.Pedido, error) {
	f.ultimoMin, f.ultimoMax = min, max
	if f.err != nil {
		return nil, f.err
	}
	return []model.Pedido{laptop}, nil
}

func (f *fakeConsultas) PedidosRangoPrecio(ctx context.Context) ([]model.Pedido, error) {
	return f.PedidosEnRango(ctx, dec("100"), dec("250"))
}

func (f *fakeConsultas) UsuariosPorPrefijo(_ context.Context, prefijo string) ([]model.Usuario, error) {
	f.prefijo = prefijo
	if f.err != nil {
		return nil, f.err
	}
	return []model.Usuario{roberto}, nil
}

func (f *fakeConsultas) UsuariosConR(ctx context.Context) ([]model.Usuario, error) {
	return f.UsuariosPorPrefijo(ctx, "R")
}

func (f *fakeConsultas) ContarPedidos(_ context.Context, id int64) (int64, error) {
	f.ultimoUserID = id
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeConsultas) ContarPedidosUsuario5(ctx context.Context) (int64, error) {
	return f.ContarPedidos(ctx, 5)
}

func (f *fakeConsultas) PedidosOrdenadosDesc(context.Context) ([]model.PedidoConUsuario, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []model.PedidoConUsuario{{Pedido: laptop, Usuario: maria}, {Pedido: mouse, Usuario: maria}}, nil
}

func (f *fakeConsultas) SumaTotalPedidos(context.Context) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if f.sinPedidos {
		return decimal.Zero, nil
	}
	return dec("1045"), nil
}

func (f *fakeConsultas) PedidoMasEconomico(context.Context) (*model.PedidoConUsuario, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.sinPedidos {
		return nil, nil
	}
	return &model.PedidoConUsuario{Pedido: mouse, Usuario: maria}, nil
}

func (f *fakeConsultas) PedidosAgrupados(context.Context) ([]model.GrupoPedidos, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.sinPedidos {
		return []model.GrupoPedidos{}, nil
	}
	return model.AgruparPorNombre([]model.PedidoAgrupadoFila{
		{Nombre: "María López", Producto: "Laptop Dell", Cantidad: 1, Total: dec("250")},
		{Nombre: "Roberto García", Producto: "Teclado Mecánico", Cantidad: 1, Total: dec("150")},
		{Nombre: "María López", Producto: "Mouse Logitech", Cantidad: 2, Total: dec("50")},
	}), nil
}

func (f *fakeConsultas) RegistrarPedido(_ context.Context, in model.NuevoPedido) (*model.Pedido, error) {
	f.registrado = &in
	if f.err != nil {
		return nil, f.err
	}
	return &model.Pedido{ID: 8, Producto: in.Producto, Cantidad: in.Cantidad, Total: in.Total, IDUsuario: in.IDUsuario}, nil
}

var errStorage = errs.NewDataAccessError("test", errors.New("connection refused"))
