package extractors

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/alegra"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Fecha desde la que se extraen compras en la primera ejecución
var fechaInicialProveedor = time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)

// SupplierBillExtractor extrae facturas de proveedor día por día de forma
// incremental. El último día almacenado se revalida contra la API: si el
// número de líneas no coincide, ese día se marca para borrado y se vuelve
// a extraer completo.
type SupplierBillExtractor struct {
	db     *sql.DB
	client *alegra.Client
	logger *utils.ETLLogger
}

// NewSupplierBillExtractor crea una nueva instancia de SupplierBillExtractor
func NewSupplierBillExtractor(db *sql.DB, client *alegra.Client, logger *utils.ETLLogger) *SupplierBillExtractor {
	return &SupplierBillExtractor{
		db:     db,
		client: client,
		logger: logger,
	}
}

// ExtractBills extrae las facturas de proveedor desde el día siguiente al
// último almacenado (o desde el propio día si resultó inconsistente) hasta hoy.
// El segundo valor es el día a borrar antes de la carga, o nil si no aplica.
func (e *SupplierBillExtractor) ExtractBills(now time.Time) ([]models.Bill, *time.Time, error) {
	startDate, revalidatedDay, err := e.resolveStartDate(now)
	if err != nil {
		return nil, nil, err
	}

	today := truncateToDay(now)
	if startDate.After(today) {
		e.logger.Info("No hay días nuevos de facturas de proveedor para procesar")
		return nil, nil, nil
	}

	// Un día por petición, en orden cronológico
	var bills []models.Bill
	for day := startDate; !day.After(today); day = day.AddDate(0, 0, 1) {
		dayBills, err := e.client.GetBillsByDate(day)
		if err != nil {
			return nil, nil, err
		}
		bills = append(bills, dayBills...)
	}

	e.logger.Info("Total de facturas de proveedor extraídas: %d (desde %s hasta %s)",
		len(bills), startDate.Format("2006-01-02"), today.Format("2006-01-02"))
	return bills, revalidatedDay, nil
}

// resolveStartDate determina el día de inicio usando la BD como fuente de
// verdad y revalidando el último día almacenado contra la API
func (e *SupplierBillExtractor) resolveStartDate(now time.Time) (time.Time, *time.Time, error) {
	lastDate, err := e.getLastBillDate()
	if err != nil {
		return time.Time{}, nil, err
	}

	if lastDate == nil {
		e.logger.Info("Primera ejecución: extrayendo compras desde %s", fechaInicialProveedor.Format("2006-01-02"))
		return fechaInicialProveedor, nil, nil
	}

	// Líneas almacenadas para ese día en la BD
	var dbLines int
	err = e.db.QueryRow("SELECT COUNT(*) FROM facturas_proveedor WHERE fecha = $1", *lastDate).Scan(&dbLines)
	if err != nil {
		return time.Time{}, nil, models.NewStageError(models.StageExtract, models.DestinationConnectionError,
			fmt.Errorf("error contando las líneas del día %s: %w", lastDate.Format("2006-01-02"), err))
	}

	// Líneas que reporta la API para el mismo día
	dayBills, err := e.client.GetBillsByDate(*lastDate)
	if err != nil {
		return time.Time{}, nil, err
	}
	apiLines := countBillLines(dayBills)

	e.logger.Info("Fecha %s: BD=%d líneas, API=%d líneas", lastDate.Format("2006-01-02"), dbLines, apiLines)

	if dbLines == apiLines {
		start := lastDate.AddDate(0, 0, 1)
		e.logger.Info("Datos consistentes, empezando desde: %s", start.Format("2006-01-02"))
		return start, nil, nil
	}

	// Inconsistencia: el loader borrará el día completo antes de insertar
	e.logger.Info("Inconsistencia detectada en %s, el día se volverá a cargar completo", lastDate.Format("2006-01-02"))
	return *lastDate, lastDate, nil
}

// getLastBillDate obtiene la fecha de la última compra cargada, o nil
func (e *SupplierBillExtractor) getLastBillDate() (*time.Time, error) {
	var lastDate sql.NullTime
	err := e.db.QueryRow("SELECT MAX(fecha) FROM facturas_proveedor").Scan(&lastDate)
	if err != nil {
		return nil, models.NewStageError(models.StageExtract, models.DestinationConnectionError,
			fmt.Errorf("error consultando la última fecha de compras: %w", err))
	}
	if !lastDate.Valid {
		return nil, nil
	}
	day := truncateToDay(lastDate.Time)
	return &day, nil
}

// countBillLines cuenta las líneas de compra contenidas en un grupo de facturas
func countBillLines(bills []models.Bill) int {
	total := 0
	for _, bill := range bills {
		if bill.Purchases == nil {
			continue
		}
		total += len(bill.Purchases.Items)
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
