// Package response holds the JSON shapes returned by the consultas endpoints.
//
// Field names are the Spanish column names clients already depend on. Money
// is always rendered as a string with two decimal places ("250.00").
package response

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/model"
)

// Dinero renders a decimal with exactly two places.
type Dinero decimal.Decimal

func (d Dinero) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.Decimal(d).StringFixed(2))
}

type Usuario struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Correo    string    `json:"correo"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pedido carries Usuario only for the consultas that load the owner.
type Pedido struct {
	ID        int64     `json:"id"`
	Producto  string    `json:"producto"`
	Cantidad  int32     `json:"cantidad"`
	Total     Dinero    `json:"total"`
	IDUsuario int64     `json:"id_usuario"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Usuario   *Usuario  `json:"usuario,omitempty"`
}

type PedidoUsuario struct {
	Producto      string `json:"producto"`
	Cantidad      int32  `json:"cantidad"`
	Total         Dinero `json:"total"`
	NombreUsuario string `json:"nombre_usuario"`
	CorreoUsuario string `json:"correo_usuario"`
}

type PedidoAgrupado struct {
	Nombre   string `json:"nombre"`
	Producto string `json:"producto"`
	Cantidad int32  `json:"cantidad"`
	Total    Dinero `json:"total"`
}

// Grupo is one key of Agrupados.
type Grupo struct {
	Nombre  string
	Pedidos []PedidoAgrupado
}

// Agrupados marshals as a JSON object keyed by user name. Keys keep slice
// order, which a Go map could not guarantee.
type Agrupados []Grupo

func (a Agrupados) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range a {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(g.Nombre)
		if err != nil {
			return nil, err
		}
		pedidos := g.Pedidos
		if pedidos == nil {
			pedidos = []PedidoAgrupado{}
		}
		val, err := json.Marshal(pedidos)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Conteo is the body of the order-count consultas.
type Conteo struct {
	UsuarioID    int64 `json:"usuario_id"`
	TotalPedidos int64 `json:"total_pedidos"`
}

const MensajeSuma = "Suma total de todos los pedidos en el sistema"

type Suma struct {
	SumaTotal Dinero `json:"suma_total"`
	Mensaje   string `json:"mensaje"`
}

func NewUsuario(u model.Usuario) Usuario {
	return Usuario{
		ID:        u.ID,
		Nombre:    u.Nombre,
		Correo:    u.Correo,
		Telefono:  u.Telefono,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func NewUsuarios(usuarios []model.Usuario) []Usuario {
	out := make([]Usuario, 0, len(usuarios))
	for _, u := range usuarios {
		out = append(out, NewUsuario(u))
	}
	return out
}

func NewPedido(p model.Pedido) Pedido {
	return Pedido{
		ID:        p.ID,
		Producto:  p.Producto,
		Cantidad:  p.Cantidad,
		Total:     Dinero(p.Total),
		IDUsuario: p.IDUsuario,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewPedidos(pedidos []model.Pedido) []Pedido {
	out := make([]Pedido, 0, len(pedidos))
	for _, p := range pedidos {
		out = append(out, NewPedido(p))
	}
	return out
}

// NewPedidoConUsuario returns nil for a nil input, which encodes as null.
func NewPedidoConUsuario(p *model.PedidoConUsuario) *Pedido {
	if p == nil {
		return nil
	}
	out := NewPedido(p.Pedido)
	u := NewUsuario(p.Usuario)
	out.Usuario = &u
	return &out
}

func NewPedidosConUsuario(pedidos []model.PedidoConUsuario) []Pedido {
	out := make([]Pedido, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *NewPedidoConUsuario(&pedidos[i]))
	}
	return out
}

func NewPedidosUsuario(filas []model.PedidoUsuarioFila) []PedidoUsuario {
	out := make([]PedidoUsuario, 0, len(filas))
	for _, f := range filas {
		out = append(out, PedidoUsuario{
			Producto:      f.Producto,
			Cantidad:      f.Cantidad,
			Total:         Dinero(f.Total),
			NombreUsuario: f.NombreUsuario,
			CorreoUsuario: f.CorreoUsuario,
		})
	}
	return out
}

func NewAgrupados(grupos []model.GrupoPedidos) Agrupados {
	out := make(Agrupados, 0, len(grupos))
	for _, g := range grupos {
		pedidos := make([]PedidoAgrupado, 0, len(g.Pedidos))
		for _, f := range g.Pedidos {
			pedidos = append(pedidos, PedidoAgrupado{
				Nombre:   f.Nombre,
				Producto: f.Producto,
				Cantidad: f.Cantidad,
				Total:    Dinero(f.Total),
			})
		}
		out = append(out, Grupo{Nombre: g.Nombre, Pedidos: pedidos})
	}
	return out
}

func NewSuma(total decimal.Decimal) Suma {
	return Suma{SumaTotal: Dinero(total), Mensaje: MensajeSuma}
}
