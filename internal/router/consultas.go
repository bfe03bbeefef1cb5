package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/consultas-api/internal/handler"
	"github.com/deppfellow/consultas-api/internal/response"
)

// ConsultasPrefix is the group every consultas route lives under.
const ConsultasPrefix = "/consultas"

// relative strips the group prefix from an absolute consultas path.
func relative(path string) string {
	return strings.TrimPrefix(path, ConsultasPrefix)
}

// registerConsultasRoutes mounts the catalog, the nine fixed consultas and
// their parameterized forms.
func registerConsultasRoutes(g *echo.Group, h *handler.Handlers) {
	c := h.Consultas

	g.GET("", handler.Handle(c.Handler, c.Catalogo, http.StatusOK))

	g.GET(relative(response.PathPedidosUsuario2), handler.Handle(c.Handler, c.PedidosUsuario2, http.StatusOK))
	g.GET(relative(response.PathPedidosConUsuarios), handler.Handle(c.Handler, c.PedidosConUsuarios, http.StatusOK))
	g.GET(relative(response.PathPedidosRangoPrecio), handler.Handle(c.Handler, c.PedidosRangoPrecio, http.StatusOK))
	g.GET(relative(response.PathUsuariosConR), handler.Handle(c.Handler, c.UsuariosConR, http.StatusOK))
	g.GET(relative(response.PathContarPedidosUsuario5), handler.Handle(c.Handler, c.ContarPedidosUsuario5, http.StatusOK))
	g.GET(relative(response.PathPedidosOrdenadosDesc), handler.Handle(c.Handler, c.PedidosOrdenadosDesc, http.StatusOK))
	g.GET(relative(response.PathSumaTotalPedidos), handler.Handle(c.Handler, c.SumaTotalPedidos, http.StatusOK))
	g.GET(relative(response.PathPedidoMasEconomico), handler.Handle(c.Handler, c.PedidoMasEconomico, http.StatusOK))
	g.GET(relative(response.PathPedidosAgrupados), handler.Handle(c.Handler, c.PedidosAgrupados, http.StatusOK))

	// Parameterized forms of the fixed consultas.
	g.GET("/usuarios/:id/pedidos", handler.Handle(c.Handler, c.PedidosPorUsuario, http.StatusOK))
	g.GET("/usuarios/:id/pedidos/total", handler.Handle(c.Handler, c.ContarPedidos, http.StatusOK))
	g.GET("/usuarios/buscar", handler.Handle(c.Handler, c.UsuariosPorPrefijo, http.StatusOK))
	g.GET("/pedidos/rango", handler.Handle(c.Handler, c.PedidosEnRango, http.StatusOK))

	g.POST("/pedidos", handler.Handle(c.Handler, c.RegistrarPedido, http.StatusCreated))
}
