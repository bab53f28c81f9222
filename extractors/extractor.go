package extractors

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/alegra"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Extractor coordina la extracción de datos crudos desde la API de Alegra.
// No modifica la fuente; solo lee los cursores incrementales de la base de
// datos de destino (la BD es la fuente de verdad del progreso).
type Extractor struct {
	db     *sql.DB
	client *alegra.Client
	logger *utils.ETLLogger

	invoiceExtractor *InvoiceExtractor
	billExtractor    *SupplierBillExtractor
	itemExtractor    *ItemExtractor
}

// NewExtractor crea una nueva instancia de Extractor
func NewExtractor(db *sql.DB, client *alegra.Client, logger *utils.ETLLogger, pageSize int) *Extractor {
	return &Extractor{
		db:               db,
		client:           client,
		logger:           logger,
		invoiceExtractor: NewInvoiceExtractor(db, client, logger, pageSize),
		billExtractor:    NewSupplierBillExtractor(db, client, logger),
		itemExtractor:    NewItemExtractor(client, logger, pageSize),
	}
}

// Extract ejecuta la extracción completa en el orden del proceso original:
// facturas de venta, facturas de proveedor e items del catálogo.
// El primer fallo aborta la extracción.
func (e *Extractor) Extract() (*models.ExtractedData, error) {
	startTime := time.Now()
	e.logger.LogExtractStart()

	var extractedData models.ExtractedData
	extractedData.LastRunTS = startTime

	var err error

	// 1. Facturas de venta (incremental por id)
	extractedData.Invoices, err = e.invoiceExtractor.ExtractInvoices(startTime)
	if err != nil {
		e.logger.Error("Error en la extracción de facturas: %v", err)
		return nil, fmt.Errorf("error extrayendo facturas: %w", err)
	}

	// 2. Facturas de proveedor (incremental por fecha, con revalidación del último día)
	extractedData.Bills, extractedData.RevalidatedDay, err = e.billExtractor.ExtractBills(startTime)
	if err != nil {
		e.logger.Error("Error en la extracción de facturas de proveedor: %v", err)
		return nil, fmt.Errorf("error extrayendo facturas de proveedor: %w", err)
	}

	// 3. Catálogo de items (snapshot completo)
	extractedData.Items, err = e.itemExtractor.ExtractItems()
	if err != nil {
		e.logger.Error("Error en la extracción del catálogo de items: %v", err)
		return nil, fmt.Errorf("error extrayendo items: %w", err)
	}

	e.logger.LogExtractComplete(
		len(extractedData.Invoices),
		len(extractedData.Bills),
		len(extractedData.Items),
		time.Since(startTime),
	)

	return &extractedData, nil
}
