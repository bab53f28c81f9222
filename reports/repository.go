package reports

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// ReportRepository escribe las tablas de reporte. Cada reemplazo es una única
// transacción TRUNCATE + INSERT por lotes: repetir la carga con los mismos
// datos deja la tabla en el mismo estado, y los lectores nunca ven un estado
// parcial.
type ReportRepository struct {
	db        *sql.DB
	logger    *utils.ETLLogger
	batchSize int
}

// NewReportRepository crea una nueva instancia de ReportRepository
func NewReportRepository(db *sql.DB, logger *utils.ETLLogger, batchSize int) *ReportRepository {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ReportRepository{
		db:        db,
		logger:    logger,
		batchSize: batchSize,
	}
}

// CreateVentasTable crea la tabla reportes_ventas_30dias si no existe
func (r *ReportRepository) CreateVentasTable() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reportes_ventas_30dias (
			id SERIAL PRIMARY KEY,
			nombre VARCHAR(500) NOT NULL,
			precio DECIMAL(12,2) NOT NULL,
			cantidad INTEGER NOT NULL,
			metodo VARCHAR(50) NOT NULL,
			vendedor VARCHAR(100) NOT NULL,
			familia VARCHAR(100),
			precio_promedio_compra DECIMAL(12,2),
			proveedor_moda VARCHAR(300),
			fecha_venta DATE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reportes_ventas_30dias_nombre ON reportes_ventas_30dias(nombre)`,
		`CREATE INDEX IF NOT EXISTS idx_reportes_ventas_30dias_fecha_venta ON reportes_ventas_30dias(fecha_venta)`,
	}
	return r.execStatements(statements, TablaVentas30Dias)
}

// CreatePedidosTable crea la tabla para_pedidos si no existe
func (r *ReportRepository) CreatePedidosTable() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS para_pedidos (
			id SERIAL PRIMARY KEY,
			nombre VARCHAR(500) NOT NULL,
			familia VARCHAR(100),
			cantidad_disponible DECIMAL(10,2),
			precio_promedio_compra DECIMAL(12,2),
			moda_proveedor VARCHAR(300),
			fecha_ultima_compra DATE,
			cantidad_ultima_compra DECIMAL(10,2),
			precio_ultimo_compra DECIMAL(12,2),
			ventas_90_dias INTEGER,
			ventas_60_dias INTEGER,
			ventas_30_dias INTEGER,
			ventas_15_dias INTEGER,
			ventas_7_dias INTEGER,
			promedio_ventas_12_meses DECIMAL(10,2),
			cantidad_a_comprar DECIMAL(10,2),
			precio_promedio_venta DECIMAL(12,2),
			margen DECIMAL(12,2),
			utilidad DECIMAL(5,2),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_para_pedidos_nombre ON para_pedidos(nombre)`,
		`CREATE INDEX IF NOT EXISTS idx_para_pedidos_familia ON para_pedidos(familia)`,
	}
	return r.execStatements(statements, TablaParaPedidos)
}

func (r *ReportRepository) execStatements(statements []string, table string) error {
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error creando/verificando la tabla %s: %w", table, err))
		}
	}
	return nil
}

// ReplaceVentas reemplaza el contenido completo de reportes_ventas_30dias
func (r *ReportRepository) ReplaceVentas(rows []ReporteVenta) error {
	columns := []string{
		"nombre", "precio", "cantidad", "metodo", "vendedor",
		"familia", "precio_promedio_compra", "proveedor_moda", "fecha_venta",
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Nombre,
			row.Precio,
			row.Cantidad,
			row.Metodo,
			row.Vendedor,
			row.Familia,
			row.PrecioPromedioCompra,
			row.ProveedorModa,
			row.FechaVenta,
		})
	}

	return r.replaceTable(TablaVentas30Dias, columns, values)
}

// ReplacePedidos reemplaza el contenido completo de para_pedidos
func (r *ReportRepository) ReplacePedidos(rows []ParaPedido) error {
	columns := []string{
		"nombre", "familia", "cantidad_disponible",
		"precio_promedio_compra", "moda_proveedor", "fecha_ultima_compra",
		"cantidad_ultima_compra", "precio_ultimo_compra",
		"ventas_90_dias", "ventas_60_dias", "ventas_30_dias",
		"ventas_15_dias", "ventas_7_dias",
		"promedio_ventas_12_meses", "cantidad_a_comprar",
		"precio_promedio_venta", "margen", "utilidad",
	}

	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Nombre,
			row.Familia,
			row.CantidadDisponible,
			row.PrecioPromedioCompra,
			row.ModaProveedor,
			row.FechaUltimaCompra,
			row.CantidadUltimaCompra,
			row.PrecioUltimaCompra,
			row.Ventas90,
			row.Ventas60,
			row.Ventas30,
			row.Ventas15,
			row.Ventas7,
			row.PromedioVentas12Meses,
			row.CantidadAComprar,
			row.PrecioPromedioVenta,
			row.Margen,
			row.Utilidad,
		})
	}

	return r.replaceTable(TablaParaPedidos, columns, values)
}

// replaceTable ejecuta TRUNCATE + INSERT por lotes en una transacción
func (r *ReportRepository) replaceTable(table string, columns []string, values [][]interface{}) error {
	tx, err := r.db.Begin()
	if err != nil {
		return models.NewStageError(models.StageReport, models.DestinationConnectionError,
			fmt.Errorf("error iniciando la transacción de %s: %w", table, err))
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s", table)); err != nil {
		return models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error truncando la tabla %s: %w", table, err))
	}

	for start := 0; start < len(values); start += r.batchSize {
		end := start + r.batchSize
		if end > len(values) {
			end = len(values)
		}
		batch := values[start:end]

		query := buildInsertQuery(table, columns, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))
		for _, row := range batch {
			args = append(args, row...)
		}

		if _, err := tx.Exec(query, args...); err != nil {
			return models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error insertando un lote en %s: %w", table, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error confirmando la transacción de %s: %w", table, err))
	}

	r.logger.Debug("Tabla %s reemplazada con %d registros", table, len(values))
	return nil
}

// buildInsertQuery construye un INSERT multifila con placeholders $n
func buildInsertQuery(table string, columns []string, nRows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	arg := 1
	for i := 0; i < nRows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", arg)
			arg++
		}
		sb.WriteString(")")
	}

	return sb.String()
}
