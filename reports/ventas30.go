package reports

import (
	"database/sql"
	"sort"
	"time"

	"github.com/jupabego97/nanotronics-etl/utils"
)

// Parámetros de las métricas de compra del reporte de ventas
const (
	// Compras consideradas por producto para las métricas
	comprasConsideradas = 3

	// Antigüedad máxima de las compras consideradas (en meses)
	mesesCompras = 3
)

// VentasGenerator genera la tabla reportes_ventas_30dias: las líneas de venta
// de la ventana de reporte enriquecidas con la familia del item y las
// métricas de compra por producto
type VentasGenerator struct {
	db         *sql.DB
	logger     *utils.ETLLogger
	ds         *DataService
	repo       *ReportRepository
	windowDays int
}

// NewVentasGenerator crea una nueva instancia de VentasGenerator
func NewVentasGenerator(db *sql.DB, logger *utils.ETLLogger, windowDays, batchSize int) *VentasGenerator {
	return &VentasGenerator{
		db:         db,
		logger:     logger,
		ds:         NewDataService(db, logger),
		repo:       NewReportRepository(db, logger, batchSize),
		windowDays: windowDays,
	}
}

// Generate reconstruye la tabla de reporte completa y devuelve la cantidad
// de registros insertados. La ventana se calcula una sola vez al inicio.
func (g *VentasGenerator) Generate(now time.Time) (int, error) {
	fechaLimite := now.AddDate(0, 0, -g.windowDays)
	g.logger.Info("Generando reporte de ventas desde %s hasta %s",
		fechaLimite.Format("2006-01-02"), now.Format("2006-01-02"))

	if err := g.repo.CreateVentasTable(); err != nil {
		return 0, err
	}

	ventas, err := g.ds.GetVentasDesde(fechaLimite)
	if err != nil {
		return 0, err
	}

	if len(ventas) == 0 {
		g.logger.Info("No se encontraron ventas en los últimos %d días", g.windowDays)
		// La tabla igualmente se vacía: el reporte refleja la ventana actual
		return 0, g.repo.ReplaceVentas(nil)
	}

	compras, err := g.ds.GetComprasDesde(now.AddDate(0, -mesesCompras, 0))
	if err != nil {
		return 0, err
	}
	comprasPorProducto := AgruparComprasPorProducto(compras)

	rows := make([]ReporteVenta, 0, len(ventas))
	for _, v := range ventas {
		ultimas := UltimasCompras(comprasPorProducto[v.Nombre], comprasConsideradas)
		rows = append(rows, ReporteVenta{
			Nombre:               v.Nombre,
			Precio:               v.Precio,
			Cantidad:             v.Cantidad,
			Metodo:               v.Metodo,
			Vendedor:             v.Vendedor,
			Familia:              v.Familia,
			PrecioPromedioCompra: PromedioPrecios(ultimas),
			ProveedorModa:        ProveedorModa(ultimas),
			FechaVenta:           v.FechaVenta,
		})
	}

	if err := g.repo.ReplaceVentas(rows); err != nil {
		return 0, err
	}

	g.logger.Info("Reporte de ventas generado: %d registros en %s", len(rows), TablaVentas30Dias)
	return len(rows), nil
}

// AgruparComprasPorProducto agrupa las líneas de compra por nombre de
// producto, manteniendo el orden por fecha descendente
func AgruparComprasPorProducto(compras []CompraLinea) map[string][]CompraLinea {
	porProducto := make(map[string][]CompraLinea)
	for _, c := range compras {
		porProducto[c.Nombre] = append(porProducto[c.Nombre], c)
	}
	for nombre := range porProducto {
		grupo := porProducto[nombre]
		sort.SliceStable(grupo, func(i, j int) bool {
			return grupo[i].Fecha.After(grupo[j].Fecha)
		})
	}
	return porProducto
}

// UltimasCompras devuelve las n compras más recientes de un producto
func UltimasCompras(compras []CompraLinea, n int) []CompraLinea {
	if len(compras) <= n {
		return compras
	}
	return compras[:n]
}

// PromedioPrecios calcula el precio promedio de un grupo de compras,
// o nil si el grupo está vacío
func PromedioPrecios(compras []CompraLinea) *float64 {
	if len(compras) == 0 {
		return nil
	}
	var suma float64
	for _, c := range compras {
		suma += c.Precio
	}
	promedio := suma / float64(len(compras))
	return &promedio
}

// ProveedorModa devuelve el proveedor más frecuente de un grupo de compras.
// Los empates se resuelven por orden alfabético, igual que el proceso original.
func ProveedorModa(compras []CompraLinea) *string {
	frecuencias := make(map[string]int)
	for _, c := range compras {
		if c.Proveedor == "" {
			continue
		}
		frecuencias[c.Proveedor]++
	}
	if len(frecuencias) == 0 {
		return nil
	}

	var moda string
	var mejor int
	for proveedor, n := range frecuencias {
		if n > mejor || (n == mejor && proveedor < moda) {
			moda = proveedor
			mejor = n
		}
	}
	return &moda
}
