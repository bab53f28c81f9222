package transform

import (
	"strconv"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
)

// processInvoices convierte cada factura de venta en una fila por línea de
// item. Aplica los valores por defecto del proceso original y la política de
// filtrado de líneas sin precio.
func (t *Transformer) processInvoices(invoices []models.Invoice) ([]models.FacturaRow, error) {
	var rows []models.FacturaRow
	filtered := 0

	for _, inv := range invoices {
		id, err := strconv.Atoi(inv.ID.String())
		if err != nil || id <= 0 {
			return nil, transformError("factura con id inválido %q", inv.ID.String())
		}

		fecha, err := time.Parse("2006-01-02", inv.Date)
		if err != nil {
			return nil, transformError("factura %d con fecha inválida %q", id, inv.Date)
		}

		// Hora de emisión: datetime de la API, o medianoche del día de emisión
		hora := fecha
		if inv.Datetime != "" {
			if parsed, err := time.Parse("2006-01-02 15:04:05", inv.Datetime); err == nil {
				hora = parsed
			}
		}

		cliente := SinEspecificar
		if inv.Client != nil && inv.Client.Name != "" {
			cliente = inv.Client.Name
		}

		vendedor := VendedorPorDefecto
		if inv.Seller != nil && inv.Seller.Name != "" {
			vendedor = inv.Seller.Name
		}

		metodo := SinEspecificar
		if inv.PaymentMethod != nil && *inv.PaymentMethod != "" {
			metodo = *inv.PaymentMethod
		}

		var totalFact float64
		if inv.TotalPaid != nil {
			totalFact = inv.TotalPaid.Float()
		}

		for _, item := range inv.Items {
			// Política de filtrado de líneas sin precio: se excluyen, no
			// se rellenan con cero
			if item.Price == nil {
				filtered++
				continue
			}

			precio := item.Price.Float()
			if precio < 0 {
				return nil, transformError("factura %d con precio negativo en la línea %q", id, item.Name)
			}

			itemID := 0
			if v, err := strconv.Atoi(item.ID.String()); err == nil {
				itemID = v
			}

			nombre := item.Name
			if nombre == "" {
				nombre = NombrePorDefecto
			}

			var total float64
			if item.Total != nil {
				total = item.Total.Float()
			}

			rows = append(rows, models.FacturaRow{
				ID:        id,
				ItemID:    itemID,
				Fecha:     fecha,
				Hora:      hora,
				Nombre:    nombre,
				Precio:    precio,
				Cantidad:  int(item.Quantity.Float()),
				Total:     total,
				Cliente:   cliente,
				TotalFact: totalFact,
				Metodo:    metodo,
				Vendedor:  vendedor,
			})
		}
	}

	if filtered > 0 {
		t.logger.Info("Filtrado de líneas sin precio: %d líneas excluidas", filtered)
	}

	return rows, nil
}
