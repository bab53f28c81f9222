package transform

import (
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Valores por defecto aplicados cuando la API no trae el dato
const (
	VendedorPorDefecto = "No se ha registrado un vendedor"
	SinEspecificar     = "Sin especificar"
	NombrePorDefecto   = "Sin nombre"
)

// Transformer convierte los datos crudos de Alegra en las filas del esquema
// de destino. Es determinista: la misma entrada produce la misma salida.
// Las líneas sin precio se excluyen según la política documentada de
// filtrado de líneas sin precio; cualquier otro campo obligatorio ausente
// produce un error de transformación, nunca un descarte silencioso.
type Transformer struct {
	logger *utils.ETLLogger
}

// NewTransformer crea una nueva instancia de Transformer
func NewTransformer(logger *utils.ETLLogger) *Transformer {
	return &Transformer{
		logger: logger,
	}
}

// Transform ejecuta la fase completa de transformación
func (t *Transformer) Transform(extractedData *models.ExtractedData) (*models.TransformedData, error) {
	startTime := time.Now()
	t.logger.Info("Inicio de la fase Transform (transformación de datos)")

	transformedData := &models.TransformedData{}

	// 1. Facturas de venta: una fila por línea de item
	t.logger.Info("Transformando facturas a líneas de items individuales...")
	facturas, err := t.processInvoices(extractedData.Invoices)
	if err != nil {
		t.logger.Error("Error transformando facturas: %v", err)
		return nil, fmt.Errorf("error transformando facturas: %w", err)
	}
	transformedData.Facturas = facturas

	// 2. Facturas de proveedor: una fila por línea de compra
	t.logger.Info("Transformando facturas de proveedor...")
	proveedor, err := t.processBills(extractedData.Bills)
	if err != nil {
		t.logger.Error("Error transformando facturas de proveedor: %v", err)
		return nil, fmt.Errorf("error transformando facturas de proveedor: %w", err)
	}
	transformedData.Proveedor = proveedor

	// 3. Catálogo de items
	t.logger.Info("Transformando catálogo de items...")
	items, err := t.processItems(extractedData.Items)
	if err != nil {
		t.logger.Error("Error transformando items: %v", err)
		return nil, fmt.Errorf("error transformando items: %w", err)
	}
	transformedData.Items = items

	t.logger.Info("Fase Transform finalizada. Duración: %v", time.Since(startTime))
	t.logger.Info("Generadas: %d líneas de facturas, %d líneas de compras, %d items",
		len(transformedData.Facturas), len(transformedData.Proveedor), len(transformedData.Items))

	return transformedData, nil
}

// transformError construye un error tipado de la etapa de transformación
func transformError(format string, v ...interface{}) error {
	return models.NewStageError(models.StageTransform, models.TransformError, fmt.Errorf(format, v...))
}
