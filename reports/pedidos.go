package reports

import (
	"database/sql"
	"time"

	"github.com/jupabego97/nanotronics-etl/utils"
)

// Parámetros del algoritmo de reposición: promedio móvil ponderado de la
// demanda diaria con factor de tendencia acotado
const (
	peso30 = 0.5
	peso60 = 0.3
	peso90 = 0.2

	tendenciaMinima = 0.7
	tendenciaMaxima = 1.3

	// Días del horizonte de compra proyectado
	horizonteDias = 30.0

	// Precios de venta considerados para el promedio
	preciosVentaConsiderados = 5
)

// PedidosGenerator genera la tabla para_pedidos: una fila por producto del
// catálogo con sus ventas por ventana, métricas de compra y la cantidad
// sugerida de reposición
type PedidosGenerator struct {
	db     *sql.DB
	logger *utils.ETLLogger
	ds     *DataService
	repo   *ReportRepository
}

// NewPedidosGenerator crea una nueva instancia de PedidosGenerator
func NewPedidosGenerator(db *sql.DB, logger *utils.ETLLogger, batchSize int) *PedidosGenerator {
	return &PedidosGenerator{
		db:     db,
		logger: logger,
		ds:     NewDataService(db, logger),
		repo:   NewReportRepository(db, logger, batchSize),
	}
}

// Generate reconstruye la tabla para_pedidos completa y devuelve la cantidad
// de registros insertados
func (g *PedidosGenerator) Generate(now time.Time) (int, error) {
	g.logger.Info("Generando tabla %s con cálculos consolidados...", TablaParaPedidos)

	if err := g.repo.CreatePedidosTable(); err != nil {
		return 0, err
	}

	items, err := g.ds.GetItemsCatalogo()
	if err != nil {
		return 0, err
	}

	if len(items) == 0 {
		g.logger.Info("No se encontraron items en el catálogo para procesar")
		return 0, g.repo.ReplacePedidos(nil)
	}

	// Ventas de los últimos 12 meses (cubren todas las ventanas)
	ventas, err := g.ds.GetVentasDesde(now.AddDate(0, -12, 0))
	if err != nil {
		return 0, err
	}
	ventasPorProducto := agruparVentasPorProducto(ventas)

	compras, err := g.ds.GetComprasDesde(now.AddDate(0, -mesesCompras, 0))
	if err != nil {
		return 0, err
	}
	comprasPorProducto := AgruparComprasPorProducto(compras)

	ultimasCompras, err := g.ds.GetUltimaCompraPorProducto()
	if err != nil {
		return 0, err
	}

	rows := make([]ParaPedido, 0, len(items))
	for _, item := range items {
		ventanas := CalcularVentanas(ventasPorProducto[item.Nombre], now)

		var disponible float64
		if item.CantidadDisponible != nil {
			disponible = *item.CantidadDisponible
		}

		row := ParaPedido{
			Nombre:                item.Nombre,
			Familia:               item.Familia,
			CantidadDisponible:    item.CantidadDisponible,
			Ventas90:              ventanas.Ventas90,
			Ventas60:              ventanas.Ventas60,
			Ventas30:              ventanas.Ventas30,
			Ventas15:              ventanas.Ventas15,
			Ventas7:               ventanas.Ventas7,
			PromedioVentas12Meses: ventanas.PromedioDiario12Meses,
			CantidadAComprar:      CalcularCantidadAComprar(ventanas, disponible),
			PrecioPromedioVenta:   PromedioUltimosPreciosVenta(ventasPorProducto[item.Nombre], preciosVentaConsiderados),
		}

		// Métricas de las compras recientes
		recientes := UltimasCompras(comprasPorProducto[item.Nombre], comprasConsideradas)
		row.PrecioPromedioCompra = PromedioPrecios(recientes)
		row.ModaProveedor = ProveedorModa(recientes)

		// Última compra registrada (sin límite de antigüedad)
		if ultima, ok := ultimasCompras[item.Nombre]; ok {
			fecha := ultima.Fecha
			cantidad := ultima.Cantidad
			precio := ultima.Precio
			row.FechaUltimaCompra = &fecha
			row.CantidadUltimaCompra = &cantidad
			row.PrecioUltimaCompra = &precio

			row.Margen = CalcularMargen(row.PrecioPromedioVenta, precio)
			row.Utilidad = CalcularUtilidad(row.PrecioPromedioVenta, precio)
		}

		rows = append(rows, row)
	}

	if err := g.repo.ReplacePedidos(rows); err != nil {
		return 0, err
	}

	g.logger.Info("Tabla %s generada: %d productos", TablaParaPedidos, len(rows))
	return len(rows), nil
}

// CalcularVentanas acumula las unidades vendidas de un producto en las
// ventanas de 7/15/30/60/90 días y calcula los promedios diarios
func CalcularVentanas(ventas []VentaLinea, now time.Time) VentanaVentas {
	limite7 := now.AddDate(0, 0, -7)
	limite15 := now.AddDate(0, 0, -15)
	limite30 := now.AddDate(0, 0, -30)
	limite60 := now.AddDate(0, 0, -60)
	limite90 := now.AddDate(0, 0, -90)
	limite12m := now.AddDate(0, -12, 0)

	var ventanas VentanaVentas
	var total12m int

	for _, v := range ventas {
		if v.FechaVenta.Before(limite12m) {
			continue
		}
		total12m += v.Cantidad

		if !v.FechaVenta.Before(limite90) {
			ventanas.Ventas90 += v.Cantidad
		}
		if !v.FechaVenta.Before(limite60) {
			ventanas.Ventas60 += v.Cantidad
		}
		if !v.FechaVenta.Before(limite30) {
			ventanas.Ventas30 += v.Cantidad
		}
		if !v.FechaVenta.Before(limite15) {
			ventanas.Ventas15 += v.Cantidad
		}
		if !v.FechaVenta.Before(limite7) {
			ventanas.Ventas7 += v.Cantidad
		}
	}

	ventanas.PromedioDiario30 = float64(ventanas.Ventas30) / 30.0
	ventanas.PromedioDiario60 = float64(ventanas.Ventas60) / 60.0
	ventanas.PromedioDiario90 = float64(ventanas.Ventas90) / 90.0
	ventanas.PromedioDiario12Meses = float64(total12m) / 365.0

	return ventanas
}

// CalcularCantidadAComprar aplica el algoritmo de reposición: promedio móvil
// ponderado de la demanda diaria (50/30/20) proyectado a 30 días, ajustado
// por el factor de tendencia acotado a [0.7, 1.3], menos el stock disponible.
// Sin ventas recientes se usa el promedio de 12 meses; el resultado nunca es
// negativo.
func CalcularCantidadAComprar(ventanas VentanaVentas, disponible float64) float64 {
	var demanda float64

	switch {
	case ventanas.PromedioDiario30 > 0 || ventanas.PromedioDiario60 > 0 || ventanas.PromedioDiario90 > 0:
		base := ventanas.PromedioDiario30*peso30 +
			ventanas.PromedioDiario60*peso60 +
			ventanas.PromedioDiario90*peso90

		tendencia := 1.0
		if ventanas.PromedioDiario60 > 0 {
			tendencia = 1.0 + (ventanas.PromedioDiario30-ventanas.PromedioDiario60)/ventanas.PromedioDiario60*0.5
		}
		if tendencia < tendenciaMinima {
			tendencia = tendenciaMinima
		}
		if tendencia > tendenciaMaxima {
			tendencia = tendenciaMaxima
		}

		demanda = base * horizonteDias * tendencia

	case ventanas.PromedioDiario12Meses > 0:
		demanda = ventanas.PromedioDiario12Meses * horizonteDias
	}

	cantidad := demanda - disponible
	if cantidad < 0 {
		return 0
	}
	return cantidad
}

// PromedioUltimosPreciosVenta calcula el precio promedio de las últimas n
// ventas de un producto (las ventas llegan ordenadas por fecha descendente)
func PromedioUltimosPreciosVenta(ventas []VentaLinea, n int) *float64 {
	if len(ventas) == 0 {
		return nil
	}
	if len(ventas) > n {
		ventas = ventas[:n]
	}
	var suma float64
	for _, v := range ventas {
		suma += v.Precio
	}
	promedio := suma / float64(len(ventas))
	return &promedio
}

// CalcularMargen calcula el margen absoluto entre el precio promedio de
// venta y el precio de la última compra
func CalcularMargen(precioVenta *float64, precioCompra float64) *float64 {
	if precioVenta == nil {
		return nil
	}
	margen := *precioVenta - precioCompra
	return &margen
}

// CalcularUtilidad calcula la utilidad porcentual sobre el precio de la
// última compra, o nil cuando no hay precio de compra válido
func CalcularUtilidad(precioVenta *float64, precioCompra float64) *float64 {
	if precioVenta == nil || precioCompra <= 0 {
		return nil
	}
	utilidad := (*precioVenta - precioCompra) / precioCompra * 100
	return &utilidad
}

// agruparVentasPorProducto agrupa las líneas de venta por nombre de producto
// manteniendo el orden por fecha descendente de la consulta
func agruparVentasPorProducto(ventas []VentaLinea) map[string][]VentaLinea {
	porProducto := make(map[string][]VentaLinea)
	for _, v := range ventas {
		porProducto[v.Nombre] = append(porProducto[v.Nombre], v)
	}
	return porProducto
}
