// Package model holds the rows read from and written to the
// usuarios and pedidos tables.
//
// Field names follow the column names. Money is always decimal.Decimal,
// stored as NUMERIC(10,2).
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Usuario is a row of usuarios.
type Usuario struct {
	ID        int64     `json:"id"`
	Nombre    string    `json:"nombre"`
	Correo    string    `json:"correo"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pedido is a row of pedidos.
type Pedido struct {
	ID        int64           `json:"id"`
	Producto  string          `json:"producto"`
	Cantidad  int32           `json:"cantidad"`
	Total     decimal.Decimal `json:"total"`
	IDUsuario int64           `json:"id_usuario"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PedidoConUsuario is an order with its owner loaded.
type PedidoConUsuario struct {
	Pedido
	Usuario Usuario `json:"usuario"`
}

// PedidoUsuarioFila is one row of the pedidos x usuarios join projection.
type PedidoUsuarioFila struct {
	Producto      string          `json:"producto"`
	Cantidad      int32           `json:"cantidad"`
	Total         decimal.Decimal `json:"total"`
	NombreUsuario string          `json:"nombre_usuario"`
	CorreoUsuario string          `json:"correo_usuario"`
}

// PedidoAgrupadoFila is one row of the join used for grouping by user name.
type PedidoAgrupadoFila struct {
	Nombre   string          `json:"nombre"`
	Producto string          `json:"producto"`
	Cantidad int32           `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

// GrupoPedidos holds every row sharing one user name.
type GrupoPedidos struct {
	Nombre  string
	Pedidos []PedidoAgrupadoFila
}

// AgruparPorNombre groups rows by Nombre. Groups appear in the order their
// key is first seen and rows keep their relative order inside a group.
func AgruparPorNombre(filas []PedidoAgrupadoFila) []GrupoPedidos {
	grupos := make([]GrupoPedidos, 0)
	index := make(map[string]int)

	for _, fila := range filas {
		i, ok := index[fila.Nombre]
		if !ok {
			i = len(grupos)
			index[fila.Nombre] = i
			grupos = append(grupos, GrupoPedidos{Nombre: fila.Nombre})
		}
		grupos[i].Pedidos = append(grupos[i].Pedidos, fila)
	}

	return grupos
}
