package response

import "strings"

const MensajeCatalogo = "Sistema de Consultas - Laravel Query Builder y ORM"

// Paths of the nine consultas, relative to the server root.
const (
	PathPedidosUsuario2       = "/consultas/pedidos-usuario-2"
	PathPedidosConUsuarios    = "/consultas/pedidos-con-usuarios"
	PathPedidosRangoPrecio    = "/consultas/pedidos-rango-precio"
	PathUsuariosConR          = "/consultas/usuarios-con-r"
	PathContarPedidosUsuario5 = "/consultas/contar-pedidos-usuario-5"
	PathPedidosOrdenadosDesc  = "/consultas/pedidos-ordenados-desc"
	PathSumaTotalPedidos      = "/consultas/suma-total-pedidos"
	PathPedidoMasEconomico    = "/consultas/pedido-mas-economico"
	PathPedidosAgrupados      = "/consultas/pedidos-agrupados"
)

type Consulta struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	URL         string `json:"url"`
}

type Catalogo struct {
	Mensaje        string     `json:"mensaje"`
	TotalConsultas int        `json:"total_consultas"`
	Consultas      []Consulta `json:"consultas"`
}

var consultas = []Consulta{
	{1, "Pedidos del usuario con ID 2", "Recupera todos los pedidos asociados al usuario con ID 2", PathPedidosUsuario2},
	{2, "Pedidos con información de usuarios", "Muestra pedidos con datos completos de los usuarios (JOIN)", PathPedidosConUsuarios},
	{3, "Pedidos entre $100 y $250", "Filtra pedidos dentro del rango de precio especificado", PathPedidosRangoPrecio},
	{4, `Usuarios que comienzan con "R"`, "Busca usuarios cuyo nombre inicia con la letra R", PathUsuariosConR},
	{5, "Contar pedidos del usuario con ID 5", "Cuenta el número total de pedidos del usuario con ID 5", PathContarPedidosUsuario5},
	{6, "Pedidos ordenados por total descendente", "Lista todos los pedidos ordenados de mayor a menor precio", PathPedidosOrdenadosDesc},
	{7, "Suma total de todos los pedidos", "Calcula el valor total de todos los pedidos en el sistema", PathSumaTotalPedidos},
	{8, "Pedido más económico con usuario", "Encuentra el pedido de menor valor con información del usuario", PathPedidoMasEconomico},
	{9, "Pedidos agrupados por usuario", "Agrupa todos los pedidos organizados por usuario", PathPedidosAgrupados},
}

// NewCatalogo lists the consultas with absolute URLs under baseURL
// (e.g. "http://localhost:8080").
func NewCatalogo(baseURL string) Catalogo {
	base := strings.TrimRight(baseURL, "/")

	items := make([]Consulta, len(consultas))
	for i, c := range consultas {
		c.URL = base + c.URL
		items[i] = c
	}

	return Catalogo{
		Mensaje:        MensajeCatalogo,
		TotalConsultas: len(items),
		Consultas:      items,
	}
}
