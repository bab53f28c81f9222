package reports

import "time"

// Nombres de las tablas de reporte que consume el dashboard
const (
	TablaVentas30Dias = "reportes_ventas_30dias"
	TablaParaPedidos  = "para_pedidos"
)

// VentaLinea es una línea de venta leída de la tabla facturas,
// con la familia del item asociada
type VentaLinea struct {
	Nombre     string
	Precio     float64
	Cantidad   int
	Total      float64
	Metodo     string
	Vendedor   string
	Familia    *string
	FechaVenta time.Time
}

// CompraLinea es una línea de compra leída de facturas_proveedor
type CompraLinea struct {
	Nombre    string
	Precio    float64
	Cantidad  float64
	Proveedor string
	Fecha     time.Time
}

// ItemInfo son los datos del catálogo necesarios para el reporte de pedidos
type ItemInfo struct {
	Nombre             string
	Familia            *string
	CantidadDisponible *float64
}

// ReporteVenta es una fila de la tabla reportes_ventas_30dias
type ReporteVenta struct {
	Nombre               string
	Precio               float64
	Cantidad             int
	Metodo               string
	Vendedor             string
	Familia              *string
	PrecioPromedioCompra *float64
	ProveedorModa        *string
	FechaVenta           time.Time
}

// VentanaVentas agrupa las ventas de un producto por ventana de tiempo
type VentanaVentas struct {
	Ventas7  int
	Ventas15 int
	Ventas30 int
	Ventas60 int
	Ventas90 int

	// Promedios diarios de unidades vendidas por ventana
	PromedioDiario30 float64
	PromedioDiario60 float64
	PromedioDiario90 float64

	// Promedio diario de los últimos 12 meses (fallback del algoritmo)
	PromedioDiario12Meses float64
}

// ParaPedido es una fila de la tabla para_pedidos
type ParaPedido struct {
	Nombre             string
	Familia            *string
	CantidadDisponible *float64

	// Métricas de facturas_proveedor
	PrecioPromedioCompra *float64
	ModaProveedor        *string
	FechaUltimaCompra    *time.Time
	CantidadUltimaCompra *float64
	PrecioUltimaCompra   *float64

	// Ventas por ventana
	Ventas90 int
	Ventas60 int
	Ventas30 int
	Ventas15 int
	Ventas7  int

	// Cálculos
	PromedioVentas12Meses float64
	CantidadAComprar      float64
	PrecioPromedioVenta   *float64
	Margen                *float64
	Utilidad              *float64
}
