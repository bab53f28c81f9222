package reports

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// DataService lee de las tablas base los datos que alimentan los reportes
type DataService struct {
	db     *sql.DB
	logger *utils.ETLLogger
}

// NewDataService crea una nueva instancia de DataService
func NewDataService(db *sql.DB, logger *utils.ETLLogger) *DataService {
	return &DataService{
		db:     db,
		logger: logger,
	}
}

// GetVentasDesde obtiene las líneas de venta desde la fecha dada, con la
// familia del item asociada, más recientes primero
func (s *DataService) GetVentasDesde(fechaLimite time.Time) ([]VentaLinea, error) {
	query := `
		SELECT f.nombre, f.precio, f.cantidad, f.total, f.metodo, f.vendedor, i.familia, f.fecha
		FROM facturas f
		LEFT JOIN items i ON f.item_id = i.id
		WHERE f.fecha >= $1
		ORDER BY f.fecha DESC, f.nombre
	`

	rows, err := s.db.Query(query, fechaLimite)
	if err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error consultando las ventas desde %s: %w", fechaLimite.Format("2006-01-02"), err))
	}
	defer rows.Close()

	var ventas []VentaLinea
	for rows.Next() {
		var v VentaLinea
		var familia sql.NullString
		if err := rows.Scan(&v.Nombre, &v.Precio, &v.Cantidad, &v.Total, &v.Metodo, &v.Vendedor, &familia, &v.FechaVenta); err != nil {
			return nil, models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error procesando una línea de venta: %w", err))
		}
		if familia.Valid {
			v.Familia = &familia.String
		}
		ventas = append(ventas, v)
	}

	if err := rows.Err(); err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error tras iterar las líneas de venta: %w", err))
	}

	return ventas, nil
}

// GetComprasDesde obtiene las líneas de compra desde la fecha dada,
// agrupables por producto, más recientes primero
func (s *DataService) GetComprasDesde(fechaLimite time.Time) ([]CompraLinea, error) {
	query := `
		SELECT nombre, precio, cantidad, COALESCE(proveedor, ''), fecha
		FROM facturas_proveedor
		WHERE fecha >= $1
		ORDER BY nombre, fecha DESC
	`

	rows, err := s.db.Query(query, fechaLimite)
	if err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error consultando las compras desde %s: %w", fechaLimite.Format("2006-01-02"), err))
	}
	defer rows.Close()

	var compras []CompraLinea
	for rows.Next() {
		var c CompraLinea
		if err := rows.Scan(&c.Nombre, &c.Precio, &c.Cantidad, &c.Proveedor, &c.Fecha); err != nil {
			return nil, models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error procesando una línea de compra: %w", err))
		}
		compras = append(compras, c)
	}

	if err := rows.Err(); err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error tras iterar las líneas de compra: %w", err))
	}

	return compras, nil
}

// GetUltimaCompraPorProducto obtiene la compra más reciente de cada producto
func (s *DataService) GetUltimaCompraPorProducto() (map[string]CompraLinea, error) {
	query := `
		SELECT DISTINCT ON (nombre) nombre, precio, cantidad, COALESCE(proveedor, ''), fecha
		FROM facturas_proveedor
		ORDER BY nombre, fecha DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error consultando la última compra por producto: %w", err))
	}
	defer rows.Close()

	ultimas := make(map[string]CompraLinea)
	for rows.Next() {
		var c CompraLinea
		if err := rows.Scan(&c.Nombre, &c.Precio, &c.Cantidad, &c.Proveedor, &c.Fecha); err != nil {
			return nil, models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error procesando la última compra de un producto: %w", err))
		}
		ultimas[c.Nombre] = c
	}

	if err := rows.Err(); err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error tras iterar las últimas compras: %w", err))
	}

	return ultimas, nil
}

// GetItemsCatalogo obtiene los datos del catálogo para el reporte de pedidos
func (s *DataService) GetItemsCatalogo() ([]ItemInfo, error) {
	query := `
		SELECT nombre, familia, cantidad_disponible
		FROM items
		ORDER BY nombre
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error consultando el catálogo de items: %w", err))
	}
	defer rows.Close()

	var items []ItemInfo
	for rows.Next() {
		var item ItemInfo
		var familia sql.NullString
		var cantidad sql.NullFloat64
		if err := rows.Scan(&item.Nombre, &familia, &cantidad); err != nil {
			return nil, models.NewStageError(models.StageReport, models.LoadError,
				fmt.Errorf("error procesando un item del catálogo: %w", err))
		}
		if familia.Valid {
			item.Familia = &familia.String
		}
		if cantidad.Valid {
			item.CantidadDisponible = &cantidad.Float64
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, models.NewStageError(models.StageReport, models.LoadError,
			fmt.Errorf("error tras iterar el catálogo de items: %w", err))
	}

	return items, nil
}
