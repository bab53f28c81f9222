package transform

import (
	"strconv"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
)

// processBills convierte cada factura de proveedor en una fila por línea de
// compra, con las mismas políticas de defaults y filtrado que las ventas
func (t *Transformer) processBills(bills []models.Bill) ([]models.FacturaProveedorRow, error) {
	var rows []models.FacturaProveedorRow
	filtered := 0

	for _, bill := range bills {
		if bill.Purchases == nil || len(bill.Purchases.Items) == 0 {
			continue
		}

		fecha, err := time.Parse("2006-01-02", bill.Date)
		if err != nil {
			return nil, transformError("factura de proveedor %s con fecha inválida %q", bill.ID.String(), bill.Date)
		}

		proveedor := ""
		if bill.Provider != nil {
			proveedor = bill.Provider.Name
		}

		var totalFact float64
		if bill.Total != nil {
			totalFact = bill.Total.Float()
		}

		for _, item := range bill.Purchases.Items {
			// Política de filtrado de líneas sin precio
			if item.Price == nil {
				filtered++
				continue
			}

			precio := item.Price.Float()
			if precio < 0 {
				return nil, transformError("compra %s con precio negativo en la línea %q", bill.ID.String(), item.Name)
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

			rows = append(rows, models.FacturaProveedorRow{
				ID:        itemID,
				Fecha:     fecha,
				Nombre:    nombre,
				Precio:    precio,
				Cantidad:  item.Quantity.Float(),
				Total:     total,
				TotalFact: totalFact,
				Proveedor: proveedor,
			})
		}
	}

	if filtered > 0 {
		t.logger.Info("Filtrado de líneas sin precio: %d líneas de compra excluidas", filtered)
	}

	return rows, nil
}
