package models

import "time"

// ExtractedData contiene los datos crudos extraídos de la API de Alegra
// durante una ejecución del ETL
type ExtractedData struct {
	// Facturas de venta nuevas (posteriores al último id cargado)
	Invoices []Invoice

	// Facturas de proveedor nuevas, agrupadas por día de emisión
	Bills []Bill

	// Catálogo completo de items (siempre se reemplaza)
	Items []Item

	// Día cuyo contenido en facturas_proveedor resultó inconsistente con la
	// API y debe borrarse antes de insertar (nil si los datos coinciden)
	RevalidatedDay *time.Time

	// Momento en que inició la extracción
	LastRunTS time.Time
}

// TotalRecords devuelve la cantidad total de registros crudos extraídos
func (d *ExtractedData) TotalRecords() int {
	return len(d.Invoices) + len(d.Bills) + len(d.Items)
}

// TransformedData contiene las filas listas para cargar en el destino
type TransformedData struct {
	Facturas  []FacturaRow
	Proveedor []FacturaProveedorRow
	Items     []ItemRow
}
