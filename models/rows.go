package models

import "time"

// Filas con el esquema fijo de las tablas de destino en PostgreSQL.
// Se crean y descartan dentro de una misma ejecución: el único estado
// durable son las tablas de destino y el archivo de log.

// FacturaRow es una línea de factura de venta destinada a la tabla facturas
type FacturaRow struct {
	ID        int
	ItemID    int
	Fecha     time.Time
	Hora      time.Time
	Nombre    string
	Precio    float64
	Cantidad  int
	Total     float64
	Cliente   string
	TotalFact float64
	Metodo    string
	Vendedor  string
}

// FacturaProveedorRow es una línea de compra destinada a la tabla facturas_proveedor
type FacturaProveedorRow struct {
	ID        int
	Fecha     time.Time
	Nombre    string
	Precio    float64
	Cantidad  float64
	Total     float64
	TotalFact float64
	Proveedor string
}

// ItemRow es un producto del catálogo destinado a la tabla items
type ItemRow struct {
	ID                 int
	Nombre             string
	CodigoBarras       *string
	Familia            *string
	Precio             *float64
	FechaInicial       *time.Time
	CantidadDisponible *float64
}
