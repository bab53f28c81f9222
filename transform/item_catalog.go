package transform

import (
	"strconv"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
)

// Nombres de los campos personalizados del catálogo en Alegra
const (
	campoCodigoBarras = "Código de barras"
	campoFamilia      = "FAMILIA"
)

// SeedItems son los items de servicio técnico que encabezan el catálogo en
// cada reemplazo, igual que en el proceso original
func SeedItems() []models.ItemRow {
	fechaInicial := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	seeds := make([]models.ItemRow, 0, 3)

	nombres := []string{
		"SERVICIO TECNICO",
		"SERVICIO TECNICO CONSOLA",
		"SERVICIO TECNICO IMPRESORA",
	}
	codigos := []string{"0491", "0492", "0493"}

	for i, nombre := range nombres {
		codigo := codigos[i]
		familia := "SERVICIOS"
		precio := 0.0
		cantidad := 0.0
		fecha := fechaInicial

		seeds = append(seeds, models.ItemRow{
			ID:                 i + 1,
			Nombre:             nombre,
			CodigoBarras:       &codigo,
			Familia:            &familia,
			Precio:             &precio,
			FechaInicial:       &fecha,
			CantidadDisponible: &cantidad,
		})
	}

	return seeds
}

// processItems convierte el catálogo crudo en filas de la tabla items,
// extrayendo los campos personalizados y los datos de inventario
func (t *Transformer) processItems(items []models.Item) ([]models.ItemRow, error) {
	var rows []models.ItemRow

	for _, item := range items {
		id, err := strconv.Atoi(item.ID.String())
		if err != nil || id <= 0 {
			return nil, transformError("item con id inválido %q", item.ID.String())
		}

		row := models.ItemRow{
			ID:     id,
			Nombre: item.Name,
		}

		// Campos personalizados: código de barras y familia
		if v := customFieldValue(item.CustomFields, campoCodigoBarras); v != "" {
			row.CodigoBarras = &v
		}
		if v := customFieldValue(item.CustomFields, campoFamilia); v != "" {
			row.Familia = &v
		}

		// Primera entrada de la lista de precios
		if len(item.Price) > 0 {
			precio := item.Price[0].Price.Float()
			row.Precio = &precio
		}

		// Datos de inventario
		if item.Inventory != nil {
			if item.Inventory.AvailableQuantity != nil {
				cantidad := item.Inventory.AvailableQuantity.Float()
				row.CantidadDisponible = &cantidad
			}
			if item.Inventory.InitialQuantityDate != "" {
				if fecha, err := time.Parse("2006-01-02", item.Inventory.InitialQuantityDate); err == nil {
					row.FechaInicial = &fecha
				}
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// customFieldValue busca el valor de un campo personalizado por nombre
func customFieldValue(fields []models.CustomField, name string) string {
	for _, f := range fields {
		if f.Name == name {
			return f.ValueString()
		}
	}
	return ""
}
