package extractors

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/alegra"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Fecha desde la que se extrae en la primera ejecución, cuando la tabla
// facturas todavía está vacía
var fechaInicialFacturas = time.Date(2022, time.November, 1, 0, 0, 0, 0, time.UTC)

// InvoiceExtractor extrae facturas de venta de la API de Alegra de forma
// incremental: el cursor es el MAX(id) de la tabla facturas
type InvoiceExtractor struct {
	db       *sql.DB
	client   *alegra.Client
	logger   *utils.ETLLogger
	pageSize int
}

// NewInvoiceExtractor crea una nueva instancia de InvoiceExtractor
func NewInvoiceExtractor(db *sql.DB, client *alegra.Client, logger *utils.ETLLogger, pageSize int) *InvoiceExtractor {
	return &InvoiceExtractor{
		db:       db,
		client:   client,
		logger:   logger,
		pageSize: pageSize,
	}
}

// ExtractInvoices extrae las facturas posteriores al último id cargado.
// Devuelve un slice vacío cuando no hay facturas nuevas.
func (e *InvoiceExtractor) ExtractInvoices(now time.Time) ([]models.Invoice, error) {
	lastID, err := e.getLastInvoiceID()
	if err != nil {
		return nil, err
	}

	startID := lastID + 1
	if lastID == 0 {
		e.logger.Info("No hay facturas previas en la BD, iniciando desde id 1")
	} else {
		e.logger.Info("Última factura en la BD: %d", lastID)
	}

	// Techo de la extracción: la factura más reciente según la API.
	// En la primera ejecución se busca desde la fecha inicial predeterminada.
	searchDate := now.AddDate(0, 0, -1)
	if lastID == 0 {
		searchDate = fechaInicialFacturas.AddDate(0, 0, 30)
		e.logger.Info("Usando fecha inicial predeterminada: %s", fechaInicialFacturas.Format("2006-01-02"))
	}

	latestID, err := e.client.GetLatestInvoiceID(searchDate)
	if err != nil {
		return nil, err
	}

	if latestID == 0 || startID > latestID {
		e.logger.Info("No hay facturas nuevas para procesar")
		return nil, nil
	}

	// Páginas secuenciales ordenadas por id, de startID hasta latestID
	var invoices []models.Invoice
	for start := startID; start <= latestID; start += e.pageSize {
		page, err := e.client.GetInvoices(start, e.pageSize)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, page...)
	}

	e.logger.Info("Total de facturas extraídas: %d", len(invoices))
	return invoices, nil
}

// getLastInvoiceID obtiene el id de la última factura cargada en el destino
func (e *InvoiceExtractor) getLastInvoiceID() (int, error) {
	var lastID int
	err := e.db.QueryRow("SELECT COALESCE(MAX(id), 0) FROM facturas").Scan(&lastID)
	if err != nil {
		return 0, models.NewStageError(models.StageExtract, models.DestinationConnectionError,
			fmt.Errorf("error consultando la última factura cargada: %w", err))
	}
	return lastID, nil
}
