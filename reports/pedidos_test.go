package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var ahora = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func venta(nombre string, diasAtras, cantidad int, precio float64) VentaLinea {
	return VentaLinea{
		Nombre:     nombre,
		Precio:     precio,
		Cantidad:   cantidad,
		FechaVenta: ahora.AddDate(0, 0, -diasAtras),
	}
}

func TestCalcularVentanas(t *testing.T) {
	ventas := []VentaLinea{
		venta("A", 3, 5, 100),   // dentro de los 7 días
		venta("A", 10, 4, 100),  // dentro de los 15 días
		venta("A", 25, 3, 100),  // dentro de los 30 días
		venta("A", 45, 6, 100),  // dentro de los 60 días
		venta("A", 80, 2, 100),  // dentro de los 90 días
		venta("A", 200, 9, 100), // solo cuenta para los 12 meses
	}

	ventanas := CalcularVentanas(ventas, ahora)

	require.Equal(t, 5, ventanas.Ventas7)
	require.Equal(t, 9, ventanas.Ventas15)
	require.Equal(t, 12, ventanas.Ventas30)
	require.Equal(t, 18, ventanas.Ventas60)
	require.Equal(t, 20, ventanas.Ventas90)

	require.InDelta(t, 12.0/30.0, ventanas.PromedioDiario30, 1e-9)
	require.InDelta(t, 18.0/60.0, ventanas.PromedioDiario60, 1e-9)
	require.InDelta(t, 20.0/90.0, ventanas.PromedioDiario90, 1e-9)
	require.InDelta(t, 29.0/365.0, ventanas.PromedioDiario12Meses, 1e-9)
}

func TestCalcularCantidadAComprar(t *testing.T) {
	t.Run("demanda ponderada con tendencia neutra", func(t *testing.T) {
		// Promedios diarios iguales: el factor de tendencia queda en 1
		ventanas := VentanaVentas{
			PromedioDiario30: 2.0,
			PromedioDiario60: 2.0,
			PromedioDiario90: 2.0,
		}
		// base = 2*0.5 + 2*0.3 + 2*0.2 = 2; demanda = 2*30 = 60
		require.InDelta(t, 60.0, CalcularCantidadAComprar(ventanas, 0), 1e-9)
	})

	t.Run("tendencia acotada al máximo", func(t *testing.T) {
		// Crecimiento fuerte: 1 + (4-1)/1*0.5 = 2.5, acotado a 1.3
		ventanas := VentanaVentas{
			PromedioDiario30: 4.0,
			PromedioDiario60: 1.0,
			PromedioDiario90: 1.0,
		}
		base := 4.0*peso30 + 1.0*peso60 + 1.0*peso90
		require.InDelta(t, base*horizonteDias*tendenciaMaxima, CalcularCantidadAComprar(ventanas, 0), 1e-9)
	})

	t.Run("tendencia acotada al mínimo", func(t *testing.T) {
		// Caída fuerte: 1 + (0.1-4)/4*0.5 ≈ 0.51, acotado a 0.7
		ventanas := VentanaVentas{
			PromedioDiario30: 0.1,
			PromedioDiario60: 4.0,
			PromedioDiario90: 4.0,
		}
		base := 0.1*peso30 + 4.0*peso60 + 4.0*peso90
		require.InDelta(t, base*horizonteDias*tendenciaMinima, CalcularCantidadAComprar(ventanas, 0), 1e-9)
	})

	t.Run("sin ventas recientes usa el promedio anual", func(t *testing.T) {
		ventanas := VentanaVentas{PromedioDiario12Meses: 0.5}
		require.InDelta(t, 15.0, CalcularCantidadAComprar(ventanas, 0), 1e-9)
	})

	t.Run("descuenta el stock disponible", func(t *testing.T) {
		ventanas := VentanaVentas{
			PromedioDiario30: 1.0,
			PromedioDiario60: 1.0,
			PromedioDiario90: 1.0,
		}
		require.InDelta(t, 20.0, CalcularCantidadAComprar(ventanas, 10), 1e-9)
	})

	t.Run("nunca devuelve negativo", func(t *testing.T) {
		ventanas := VentanaVentas{
			PromedioDiario30: 0.1,
			PromedioDiario60: 0.1,
			PromedioDiario90: 0.1,
		}
		require.Equal(t, 0.0, CalcularCantidadAComprar(ventanas, 1000))
	})

	t.Run("sin historial de ventas", func(t *testing.T) {
		require.Equal(t, 0.0, CalcularCantidadAComprar(VentanaVentas{}, 5))
	})
}

func TestPromedioUltimosPreciosVenta(t *testing.T) {
	require.Nil(t, PromedioUltimosPreciosVenta(nil, 5))

	ventas := []VentaLinea{
		venta("A", 1, 1, 100),
		venta("A", 2, 1, 200),
		venta("A", 3, 1, 300),
		venta("A", 4, 1, 999),
	}
	// Solo se consideran las tres más recientes
	promedio := PromedioUltimosPreciosVenta(ventas, 3)
	require.NotNil(t, promedio)
	require.InDelta(t, 200.0, *promedio, 1e-9)
}

func TestCalcularMargenYUtilidad(t *testing.T) {
	precioVenta := 150.0

	margen := CalcularMargen(&precioVenta, 100)
	require.NotNil(t, margen)
	require.InDelta(t, 50.0, *margen, 1e-9)

	utilidad := CalcularUtilidad(&precioVenta, 100)
	require.NotNil(t, utilidad)
	require.InDelta(t, 50.0, *utilidad, 1e-9)

	// Sin precio de venta no hay margen ni utilidad
	require.Nil(t, CalcularMargen(nil, 100))
	require.Nil(t, CalcularUtilidad(nil, 100))

	// Con precio de compra cero o negativo la utilidad no está definida
	require.Nil(t, CalcularUtilidad(&precioVenta, 0))
	require.Nil(t, CalcularUtilidad(&precioVenta, -10))
}

func TestAgruparVentasPorProducto(t *testing.T) {
	ventas := []VentaLinea{
		venta("A", 1, 1, 100),
		venta("B", 2, 1, 200),
		venta("A", 3, 1, 300),
	}

	porProducto := agruparVentasPorProducto(ventas)
	require.Len(t, porProducto, 2)
	require.Len(t, porProducto["A"], 2)
	require.Len(t, porProducto["B"], 1)
}
