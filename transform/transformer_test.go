package transform

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// chdirTemp reemplaza a t.Chdir (Go 1.24) para toolchains anteriores.
func chdirTemp(t *testing.T) {
	t.Helper()
	previo, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(previo) })
}

func testLogger(t *testing.T) *utils.ETLLogger {
	t.Helper()
	chdirTemp(t)
	return utils.NewETLLogger(false)
}

func fx(v float64) *models.FlexFloat {
	f := models.FlexFloat(v)
	return &f
}

func strPtr(s string) *string {
	return &s
}

func TestTransformFacturasExplotaLineas(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	invoices := []models.Invoice{
		{
			ID:            json.Number("4521"),
			Date:          "2024-03-15",
			Datetime:      "2024-03-15 10:30:00",
			TotalPaid:     fx(45000),
			PaymentMethod: strPtr("cash"),
			Client:        &models.NamedRef{Name: "Cliente Uno"},
			Seller:        &models.NamedRef{Name: "Vendedor Uno"},
			Items: []models.InvoiceItem{
				{ID: json.Number("7"), Name: "Producto A", Price: fx(15000), Quantity: 2, Total: fx(30000)},
				{ID: json.Number("8"), Name: "Producto B", Price: fx(15000), Quantity: 1, Total: fx(15000)},
			},
		},
	}

	rows, err := transformer.processInvoices(invoices)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	primera := rows[0]
	require.Equal(t, 4521, primera.ID)
	require.Equal(t, 7, primera.ItemID)
	require.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), primera.Fecha)
	require.Equal(t, time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC), primera.Hora)
	require.Equal(t, "Producto A", primera.Nombre)
	require.Equal(t, 15000.0, primera.Precio)
	require.Equal(t, 2, primera.Cantidad)
	require.Equal(t, 45000.0, primera.TotalFact)
	require.Equal(t, "Cliente Uno", primera.Cliente)
	require.Equal(t, "Vendedor Uno", primera.Vendedor)
	require.Equal(t, "cash", primera.Metodo)
}

func TestTransformFacturasValoresPorDefecto(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	invoices := []models.Invoice{
		{
			ID:   json.Number("10"),
			Date: "2024-01-05",
			Items: []models.InvoiceItem{
				{ID: json.Number("1"), Price: fx(100), Quantity: 1},
			},
		},
	}

	rows, err := transformer.processInvoices(invoices)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, SinEspecificar, row.Cliente)
	require.Equal(t, VendedorPorDefecto, row.Vendedor)
	require.Equal(t, SinEspecificar, row.Metodo)
	require.Equal(t, NombrePorDefecto, row.Nombre)
	// Sin datetime, la hora es la medianoche del día de emisión
	require.Equal(t, row.Fecha, row.Hora)
}

func TestTransformFacturasFiltraLineasSinPrecio(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	// Tres líneas con montos 10, 20 y null: la línea sin precio se excluye
	// y el total agregado de las restantes es 30
	invoices := []models.Invoice{
		{
			ID:   json.Number("77"),
			Date: "2024-06-01",
			Items: []models.InvoiceItem{
				{ID: json.Number("1"), Name: "A", Price: fx(10), Quantity: 1, Total: fx(10)},
				{ID: json.Number("2"), Name: "B", Price: fx(20), Quantity: 1, Total: fx(20)},
				{ID: json.Number("3"), Name: "C", Price: nil, Quantity: 1},
			},
		},
	}

	rows, err := transformer.processInvoices(invoices)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var suma float64
	for _, row := range rows {
		suma += row.Total
	}
	require.Equal(t, 30.0, suma)
}

func TestTransformFacturasErrores(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	t.Run("id inválido", func(t *testing.T) {
		_, err := transformer.processInvoices([]models.Invoice{
			{ID: json.Number("abc"), Date: "2024-01-01"},
		})
		require.Error(t, err)
		require.Equal(t, models.TransformError, models.ErrorKindOf(err))
	})

	t.Run("fecha inválida", func(t *testing.T) {
		_, err := transformer.processInvoices([]models.Invoice{
			{ID: json.Number("5"), Date: "15/03/2024"},
		})
		require.Error(t, err)
		require.Equal(t, models.TransformError, models.ErrorKindOf(err))
	})

	t.Run("precio negativo", func(t *testing.T) {
		_, err := transformer.processInvoices([]models.Invoice{
			{
				ID:   json.Number("5"),
				Date: "2024-03-15",
				Items: []models.InvoiceItem{
					{ID: json.Number("1"), Name: "A", Price: fx(-5), Quantity: 1},
				},
			},
		})
		require.Error(t, err)
		require.Equal(t, models.TransformError, models.ErrorKindOf(err))
	})
}

func TestTransformComprasPorLinea(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	bills := []models.Bill{
		{
			ID:       json.Number("300"),
			Date:     "2024-02-10",
			Total:    fx(250000),
			Provider: &models.NamedRef{Name: "Distribuidora Norte"},
			Purchases: &models.BillPurchases{
				Items: []models.InvoiceItem{
					{ID: json.Number("7"), Name: "Producto A", Price: fx(12500), Quantity: 10, Total: fx(125000)},
					{ID: json.Number("9"), Name: "Producto C", Price: nil, Quantity: 5},
				},
			},
		},
		// Una factura sin líneas de compra se omite por completo
		{ID: json.Number("301"), Date: "2024-02-11"},
	}

	rows, err := transformer.processBills(bills)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, 7, row.ID)
	require.Equal(t, "Producto A", row.Nombre)
	require.Equal(t, 12500.0, row.Precio)
	require.Equal(t, 10.0, row.Cantidad)
	require.Equal(t, 250000.0, row.TotalFact)
	require.Equal(t, "Distribuidora Norte", row.Proveedor)
}

func TestTransformItemsCatalogo(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	items := []models.Item{
		{
			ID:   json.Number("42"),
			Name: "Producto A",
			CustomFields: []models.CustomField{
				{Name: campoCodigoBarras, Value: json.RawMessage(`"7701234567890"`)},
				{Name: campoFamilia, Value: json.RawMessage(`"CONSOLAS"`)},
			},
			Price: []models.PriceEntry{{Price: 15000}, {Price: 14000}},
			Inventory: &models.ItemInventory{
				AvailableQuantity:   fx(8),
				InitialQuantityDate: "2023-05-20",
			},
		},
		{
			// Item mínimo: sin campos personalizados, precios ni inventario
			ID:   json.Number("43"),
			Name: "Producto B",
		},
	}

	rows, err := transformer.processItems(items)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	completo := rows[0]
	require.Equal(t, 42, completo.ID)
	require.Equal(t, "7701234567890", *completo.CodigoBarras)
	require.Equal(t, "CONSOLAS", *completo.Familia)
	require.Equal(t, 15000.0, *completo.Precio)
	require.Equal(t, 8.0, *completo.CantidadDisponible)
	require.Equal(t, time.Date(2023, time.May, 20, 0, 0, 0, 0, time.UTC), *completo.FechaInicial)

	minimo := rows[1]
	require.Nil(t, minimo.CodigoBarras)
	require.Nil(t, minimo.Familia)
	require.Nil(t, minimo.Precio)
	require.Nil(t, minimo.CantidadDisponible)
	require.Nil(t, minimo.FechaInicial)
}

func TestSeedItems(t *testing.T) {
	seeds := SeedItems()
	require.Len(t, seeds, 3)

	require.Equal(t, 1, seeds[0].ID)
	require.Equal(t, "SERVICIO TECNICO", seeds[0].Nombre)
	require.Equal(t, "0491", *seeds[0].CodigoBarras)
	require.Equal(t, "SERVICIOS", *seeds[0].Familia)

	require.Equal(t, "SERVICIO TECNICO CONSOLA", seeds[1].Nombre)
	require.Equal(t, "SERVICIO TECNICO IMPRESORA", seeds[2].Nombre)
}

func TestTransformCompleto(t *testing.T) {
	transformer := NewTransformer(testLogger(t))

	extracted := &models.ExtractedData{
		Invoices: []models.Invoice{
			{
				ID:   json.Number("1"),
				Date: "2024-01-01",
				Items: []models.InvoiceItem{
					{ID: json.Number("1"), Name: "A", Price: fx(10), Quantity: 1, Total: fx(10)},
				},
			},
		},
		Items: []models.Item{
			{ID: json.Number("42"), Name: "Producto A"},
		},
	}

	transformed, err := transformer.Transform(extracted)
	require.NoError(t, err)
	require.Len(t, transformed.Facturas, 1)
	require.Empty(t, transformed.Proveedor)
	require.Len(t, transformed.Items, 1)
}
