package seeder

import (
	"github.com/shopspring/decimal"

	"github.com/deppfellow/consultas-api/internal/model"
)

// Usuarios are inserted in this order, so after a truncate they get ids 1 to 5.
// Two names start with R.
var Usuarios = []model.NuevoUsuario{
	{Nombre: "Roberto García", Correo: "roberto@example.com", Telefono: "2452-0101"},
	{Nombre: "María López", Correo: "maria@example.com", Telefono: "7458-0102"},
	{Nombre: "Carlos Martínez", Correo: "carlos@example.com", Telefono: "2365-0103"},
	{Nombre: "Ana Rodríguez", Correo: "ana@example.com", Telefono: "7496-0104"},
	{Nombre: "Ricardo Fernández", Correo: "ricardo@example.com", Telefono: "2147-0105"},
}

// Pedidos reference Usuarios by their post-truncate ids. Totals add up to 1045.00.
var Pedidos = []model.NuevoPedido{
	{Producto: "Laptop Dell", Cantidad: 1, Total: decimal.RequireFromString("250.00"), IDUsuario: 2},
	{Producto: "Mouse Logitech", Cantidad: 2, Total: decimal.RequireFromString("50.00"), IDUsuario: 2},
	{Producto: "Teclado Mecánico", Cantidad: 1, Total: decimal.RequireFromString("150.00"), IDUsuario: 1},
	{Producto: "Monitor Samsung", Cantidad: 1, Total: decimal.RequireFromString("300.00"), IDUsuario: 5},
	{Producto: "Webcam HD", Cantidad: 1, Total: decimal.RequireFromString("80.00"), IDUsuario: 3},
	{Producto: "Auriculares Bluetooth", Cantidad: 1, Total: decimal.RequireFromString("120.00"), IDUsuario: 2},
	{Producto: "Disco Duro Externo", Cantidad: 1, Total: decimal.RequireFromString("95.00"), IDUsuario: 4},
}
