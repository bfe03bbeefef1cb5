package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/consultas-api/internal/validation"
)

func fila(nombre, producto string, total string) PedidoAgrupadoFila {
	return PedidoAgrupadoFila{Nombre: nombre, Producto: producto, Cantidad: 1, Total: decimal.RequireFromString(total)}
}

func TestAgruparPorNombre(t *testing.T) {
	filas := []PedidoAgrupadoFila{
		fila("Ana Rodríguez", "Disco Duro Externo", "95.00"),
		fila("María López", "Laptop Dell", "250.00"),
		fila("María López", "Mouse Logitech", "50.00"),
		fila("María López", "Auriculares Bluetooth", "120.00"),
		fila("Roberto García", "Teclado Mecánico", "150.00"),
	}

	grupos := AgruparPorNombre(filas)
	require.Len(t, grupos, 3)

	assert.Equal(t, "Ana Rodríguez", grupos[0].Nombre)
	assert.Equal(t, "María López", grupos[1].Nombre)
	assert.Equal(t, "Roberto García", grupos[2].Nombre)

	productos := []string{}
	for _, p := range grupos[1].Pedidos {
		productos = append(productos, p.Producto)
	}
	assert.Equal(t, []string{"Laptop Dell", "Mouse Logitech", "Auriculares Bluetooth"}, productos)

	// Every row lands in exactly one group.
	assert.Equal(t, filas, flatten(grupos))
}

func TestAgruparPorNombre_KeepsFirstSeenOrder(t *testing.T) {
	grupos := AgruparPorNombre([]PedidoAgrupadoFila{
		fila("Zoe", "A", "1"),
		fila("Ana", "B", "2"),
		fila("Zoe", "C", "3"),
	})

	require.Len(t, grupos, 2)
	assert.Equal(t, "Zoe", grupos[0].Nombre)
	assert.Len(t, grupos[0].Pedidos, 2)
}

func TestAgruparPorNombre_Empty(t *testing.T) {
	grupos := AgruparPorNombre(nil)
	assert.NotNil(t, grupos)
	assert.Empty(t, grupos)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestFiltroRango_Validate(t *testing.T) {
	cases := []struct {
		name   string
		filtro FiltroRango
		fields []string
	}{
		{"valid", FiltroRango{Min: dec("100"), Max: dec("250")}, nil},
		{"equal bounds", FiltroRango{Min: dec("80"), Max: dec("80")}, nil},
		{"missing both", FiltroRango{}, []string{"min", "max"}},
		{"negative min", FiltroRango{Min: dec("-1"), Max: dec("10")}, []string{"min"}},
		{"negative max", FiltroRango{Min: dec("0"), Max: dec("-0.01")}, []string{"max"}},
		{"inverted", FiltroRango{Min: dec("250"), Max: dec("100")}, []string{"min"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filtro.Validate()
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}

			var custom validation.CustomValidationErrors
			require.ErrorAs(t, err, &custom)
			var fields []string
			for _, e := range custom {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tc.fields, fields)
		})
	}
}

func TestFiltroPrefijo_Validate(t *testing.T) {
	assert.NoError(t, (&FiltroPrefijo{Prefijo: "R"}).Validate())
	assert.Error(t, (&FiltroPrefijo{Prefijo: ""}).Validate())
	assert.Error(t, (&FiltroPrefijo{Prefijo: "   "}).Validate())

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'ñ'
	}
	assert.Error(t, (&FiltroPrefijo{Prefijo: string(long)}).Validate())
	assert.NoError(t, (&FiltroPrefijo{Prefijo: string(long[:100])}).Validate())
}

func TestFiltroUsuario_Validate(t *testing.T) {
	assert.NoError(t, (&FiltroUsuario{ID: 1}).Validate())
	assert.Error(t, (&FiltroUsuario{ID: 0}).Validate())
	assert.Error(t, (&FiltroUsuario{ID: -3}).Validate())
}

func TestNuevoPedido_Validate(t *testing.T) {
	valid := NuevoPedido{Producto: "Webcam HD", Cantidad: 1, Total: decimal.RequireFromString("80.00"), IDUsuario: 3}
	assert.NoError(t, valid.Validate())

	zero := valid
	zero.Total = decimal.Zero
	assert.NoError(t, zero.Validate())

	cases := map[string]func(p *NuevoPedido){
		"missing product": func(p *NuevoPedido) { p.Producto = "" },
		"zero quantity":   func(p *NuevoPedido) { p.Cantidad = 0 },
		"negative total":  func(p *NuevoPedido) { p.Total = decimal.RequireFromString("-1") },
		"three decimals":  func(p *NuevoPedido) { p.Total = decimal.RequireFromString("1.005") },
		"overflow":        func(p *NuevoPedido) { p.Total = decimal.RequireFromString("100000000") },
		"missing usuario": func(p *NuevoPedido) { p.IDUsuario = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestNuevoUsuario_Validate(t *testing.T) {
	assert.NoError(t, (&NuevoUsuario{Nombre: "Ana", Correo: "ana@example.com", Telefono: "7496-0104"}).Validate())
	assert.Error(t, (&NuevoUsuario{Nombre: "Ana", Correo: "not-an-email", Telefono: "7496-0104"}).Validate())
}

// flatten turns the groups back into rows, group by group.
func flatten(grupos []GrupoPedidos) []PedidoAgrupadoFila {
	var filas []PedidoAgrupadoFila
	for _, g := range grupos {
		filas = append(filas, g.Pedidos...)
	}
	return filas
}
