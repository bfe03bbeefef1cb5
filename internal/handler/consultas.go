package handler

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/model"
	"github.com/deppfellow/consultas-api/internal/response"
	"github.com/deppfellow/consultas-api/internal/server"
	"github.com/deppfellow/consultas-api/internal/service"
)

type consultasService interface {
	PedidosPorUsuario(ctx context.Context, idUsuario int64) ([]model.Pedido, error)
	PedidosUsuario2(ctx context.Context) ([]model.Pedido, error)
	PedidosConUsuarios(ctx context.Context) ([]model.PedidoUsuarioFila, error)
	PedidosEnRango(ctx context.Context, min, max decimal.Decimal) ([]model.Pedido, error)
	PedidosRangoPrecio(ctx context.Context) ([]model.Pedido, error)
	UsuariosPorPrefijo(ctx context.Context, prefijo string) ([]model.Usuario, error)
	UsuariosConR(ctx context.Context) ([]model.Usuario, error)
	ContarPedidos(ctx context.Context, idUsuario int64) (int64, error)
	ContarPedidosUsuario5(ctx context.Context) (int64, error)
	PedidosOrdenadosDesc(ctx context.Context) ([]model.PedidoConUsuario, error)
	SumaTotalPedidos(ctx context.Context) (decimal.Decimal, error)
	PedidoMasEconomico(ctx context.Context) (*model.PedidoConUsuario, error)
	PedidosAgrupados(ctx context.Context) ([]model.GrupoPedidos, error)
	RegistrarPedido(ctx context.Context, in model.NuevoPedido) (*model.Pedido, error)
}

// ConsultasHandler serves the /consultas routes.
type ConsultasHandler struct {
	Handler
	consultas consultasService
}

func NewConsultasHandler(s *server.Server, consultas consultasService) *ConsultasHandler {
	return &ConsultasHandler{
		Handler:   NewHandler(s),
		consultas: consultas,
	}
}

// baseURL prefers the configured public URL and falls back to the request host.
func (h *ConsultasHandler) baseURL(c echo.Context) string {
	if h.server != nil && h.server.Config != nil && h.server.Config.Server.PublicURL != "" {
		return h.server.Config.Server.PublicURL
	}
	return c.Scheme() + "://" + c.Request().Host
}

func (h *ConsultasHandler) Catalogo(c echo.Context, _ *SinParametros) (response.Catalogo, error) {
	return response.NewCatalogo(h.baseURL(c)), nil
}

func (h *ConsultasHandler) PedidosUsuario2(c echo.Context, _ *SinParametros) ([]response.Pedido, error) {
	pedidos, err := h.consultas.PedidosUsuario2(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewPedidos(pedidos), nil
}

func (h *ConsultasHandler) PedidosPorUsuario(c echo.Context, req *model.FiltroUsuario) ([]response.Pedido, error) {
	pedidos, err := h.consultas.PedidosPorUsuario(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return response.NewPedidos(pedidos), nil
}

func (h *ConsultasHandler) PedidosConUsuarios(c echo.Context, _ *SinParametros) ([]response.PedidoUsuario, error) {
	filas, err := h.consultas.PedidosConUsuarios(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewPedidosUsuario(filas), nil
}

func (h *ConsultasHandler) PedidosRangoPrecio(c echo.Context, _ *SinParametros) ([]response.Pedido, error) {
	pedidos, err := h.consultas.PedidosRangoPrecio(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewPedidos(pedidos), nil
}

func (h *ConsultasHandler) PedidosEnRango(c echo.Context, req *model.FiltroRango) ([]response.Pedido, error) {
	pedidos, err := h.consultas.PedidosEnRango(c.Request().Context(), *req.Min, *req.Max)
	if err != nil {
		return nil, err
	}
	return response.NewPedidos(pedidos), nil
}

func (h *ConsultasHandler) UsuariosConR(c echo.Context, _ *SinParametros) ([]response.Usuario, error) {
	usuarios, err := h.consultas.UsuariosConR(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewUsuarios(usuarios), nil
}

func (h *ConsultasHandler) UsuariosPorPrefijo(c echo.Context, req *model.FiltroPrefijo) ([]response.Usuario, error) {
	usuarios, err := h.consultas.UsuariosPorPrefijo(c.Request().Context(), req.Prefijo)
	if err != nil {
		return nil, err
	}
	return response.NewUsuarios(usuarios), nil
}

func (h *ConsultasHandler) ContarPedidosUsuario5(c echo.Context, _ *SinParametros) (response.Conteo, error) {
	total, err := h.consultas.ContarPedidosUsuario5(c.Request().Context())
	if err != nil {
		return response.Conteo{}, err
	}
	return response.Conteo{UsuarioID: service.UsuarioConteo, TotalPedidos: total}, nil
}

func (h *ConsultasHandler) ContarPedidos(c echo.Context, req *model.FiltroUsuario) (response.Conteo, error) {
	total, err := h.consultas.ContarPedidos(c.Request().Context(), req.ID)
	if err != nil {
		return response.Conteo{}, err
	}
	return response.Conteo{UsuarioID: req.ID, TotalPedidos: total}, nil
}

func (h *ConsultasHandler) PedidosOrdenadosDesc(c echo.Context, _ *SinParametros) ([]response.Pedido, error) {
	pedidos, err := h.consultas.PedidosOrdenadosDesc(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewPedidosConUsuario(pedidos), nil
}

func (h *ConsultasHandler) SumaTotalPedidos(c echo.Context, _ *SinParametros) (response.Suma, error) {
	total, err := h.consultas.SumaTotalPedidos(c.Request().Context())
	if err != nil {
		return response.Suma{}, err
	}
	return response.NewSuma(total), nil
}

// PedidoMasEconomico writes null when there are no orders.
func (h *ConsultasHandler) PedidoMasEconomico(c echo.Context, _ *SinParametros) (*response.Pedido, error) {
	pedido, err := h.consultas.PedidoMasEconomico(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewPedidoConUsuario(pedido), nil
}

func (h *ConsultasHandler) PedidosAgrupados(c echo.Context, _ *SinParametros) (response.Agrupados, error) {
	grupos, err := h.consultas.PedidosAgrupados(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return response.NewAgrupados(grupos), nil
}

func (h *ConsultasHandler) RegistrarPedido(c echo.Context, req *model.NuevoPedido) (response.Pedido, error) {
	pedido, err := h.consultas.RegistrarPedido(c.Request().Context(), *req)
	if err != nil {
		return response.Pedido{}, err
	}
	return response.NewPedido(*pedido), nil
}
