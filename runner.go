package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/jupabego97/nanotronics-etl/alegra"
	"github.com/jupabego97/nanotronics-etl/config"
	"github.com/jupabego97/nanotronics-etl/extractors"
	"github.com/jupabego97/nanotronics-etl/load"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/reports"
	"github.com/jupabego97/nanotronics-etl/transform"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Interfaces mínimas de cada fase. El runner solo conoce estas firmas,
// lo que permite sustituir cualquier fase en las pruebas.
type extractorPhase interface {
	Extract() (*models.ExtractedData, error)
}

type transformerPhase interface {
	Transform(extractedData *models.ExtractedData) (*models.TransformedData, error)
}

type loadPhase interface {
	Load(transformedData *models.TransformedData, revalidatedDay *time.Time) error
}

type reportGenerator interface {
	Generate(now time.Time) (int, error)
}

type ETLRunner struct {
	config      config.ETLConfig
	db          *sql.DB
	logger      *utils.ETLLogger
	extractor   extractorPhase
	transformer transformerPhase
	loadManager loadPhase
	ventasGen   reportGenerator
	pedidosGen  reportGenerator
	etlLogRepo  models.ETLLogRepository
	backup      *utils.BackupWriter
}

// NewETLRunner crea un nuevo ETLRunner con todas sus fases conectadas
func NewETLRunner() (*ETLRunner, error) {
	etlConfig := config.GetConfig()

	logger := utils.NewETLLogger(etlConfig.EnableDetailedLogging)
	logger.Info("Inicializando ETL Runner")

	// Los fallos de arranque también quedan en el archivo de log: el
	// destino inalcanzable debe dejar exactamente una entrada de error
	db, err := config.ConnectDatabase(etlConfig)
	if err != nil {
		logger.Error("Error conectando a la base de datos de destino: %v", err)
		return nil, fmt.Errorf("error conectando a la base de datos: %w", err)
	}

	// Verificamos el esquema de destino antes de cualquier fase
	if err := load.EnsureSchema(db, logger); err != nil {
		logger.Error("Error verificando el esquema de destino: %v", err)
		config.CloseDatabase(db)
		return nil, err
	}

	etlLogRepo := models.NewPostgresETLLogRepository(db)
	if err := etlLogRepo.CreateETLLogTable(); err != nil {
		logger.Error("Error creando la tabla del journal de ejecuciones: %v", err)
		config.CloseDatabase(db)
		return nil, fmt.Errorf("error creando la tabla del journal de ejecuciones: %w", err)
	}

	client := alegra.NewClient(etlConfig.API, logger)

	runner := &ETLRunner{
		config:      etlConfig,
		db:          db,
		logger:      logger,
		extractor:   extractors.NewExtractor(db, client, logger, etlConfig.API.PageSize),
		transformer: transform.NewTransformer(logger),
		loadManager: load.NewLoadManager(db, logger),
		ventasGen:   reports.NewVentasGenerator(db, logger, etlConfig.ReportWindowDays, etlConfig.InsertBatchSize),
		pedidosGen:  reports.NewPedidosGenerator(db, logger, etlConfig.InsertBatchSize),
		etlLogRepo:  etlLogRepo,
	}

	if etlConfig.EnableBackup {
		runner.backup = utils.NewBackupWriter(db, etlConfig.BackupDir, logger)
	}

	return runner, nil
}

// Close cierra la conexión con la base de datos
func (r *ETLRunner) Close() {
	r.logger.Info("Finalizando ETL Runner")
	config.CloseDatabase(r.db)
}

// ExecuteETL ejecuta el proceso ETL completo: extracción, transformación,
// carga y regeneración de los reportes. Cada invocación queda registrada
// en etl_run_log, tanto si termina con éxito como si falla.
func (r *ETLRunner) ExecuteETL() error {
	startTime := time.Now()
	runID := uuid.NewString()
	r.logger.LogETLStart()
	r.logger.Info("Ejecución %s iniciada", runID)

	logID, err := r.etlLogRepo.CreateLogEntry(runID, startTime)
	if err != nil {
		r.logger.Error("Error creando la entrada en el journal: %v", err)
		return fmt.Errorf("error creando la entrada en el journal: %w", err)
	}

	// 1. Fase de extracción
	extractedData, err := r.extractor.Extract()
	if err != nil {
		return r.failRun(logID, "Extract", err)
	}

	// 2. Fase de transformación
	transformedData, err := r.transformer.Transform(extractedData)
	if err != nil {
		return r.failRun(logID, "Transform", err)
	}

	// El catálogo de items se reemplaza completo en cada ejecución; las
	// filas semilla de servicio técnico van siempre al frente
	if len(transformedData.Items) > 0 {
		transformedData.Items = append(transform.SeedItems(), transformedData.Items...)
	}

	// 3. Fase de carga
	if err := r.loadManager.Load(transformedData, extractedData.RevalidatedDay); err != nil {
		return r.failRun(logID, "Load", err)
	}

	// 4. Regeneración de los reportes del dashboard
	ventasRegistros, err := r.ventasGen.Generate(startTime)
	if err != nil {
		return r.failRun(logID, "Reporte ventas", err)
	}

	pedidosRegistros, err := r.pedidosGen.Generate(startTime)
	if err != nil {
		return r.failRun(logID, "Reporte pedidos", err)
	}

	counts := models.RunCounts{
		Facturas:         len(transformedData.Facturas),
		Compras:          len(transformedData.Proveedor),
		Items:            len(transformedData.Items),
		RegistrosReporte: ventasRegistros + pedidosRegistros,
		LastInvoiceID:    maxFacturaID(transformedData.Facturas),
	}
	if err := r.etlLogRepo.UpdateLogEntrySuccess(logID, time.Now(), counts); err != nil {
		r.logger.Error("Error actualizando la entrada del journal: %v", err)
	}

	// El backup es posterior al éxito de la ejecución y nunca la invalida
	if r.backup != nil {
		if _, err := r.backup.ExportFacturas(); err != nil {
			r.logger.Error("Error exportando el backup de facturas: %v", err)
		}
	}

	r.logger.LogETLComplete(startTime, counts.Facturas, counts.Compras, counts.Items)
	return nil
}

// failRun registra el fallo de una fase en el journal y devuelve el error
// envuelto. El proceso no es reanudable: la próxima ejecución recalcula
// sus puntos de partida desde el destino.
func (r *ETLRunner) failRun(logID int, fase string, err error) error {
	errMsg := fmt.Sprintf("Error en la fase %s: %v", fase, err)
	r.logger.Error("%s", errMsg)
	if kind := models.ErrorKindOf(err); kind != "" {
		r.logger.Error("Clasificación del error: %s", kind)
	}
	if updateErr := r.etlLogRepo.UpdateLogEntryFailure(logID, time.Now(), errMsg); updateErr != nil {
		r.logger.Error("Error actualizando la entrada del journal: %v", updateErr)
	}
	return fmt.Errorf("error en la fase %s: %w", fase, err)
}

// GenerateReports regenera únicamente las tablas de reporte a partir de
// los datos ya cargados, sin tocar la API de origen
func (r *ETLRunner) GenerateReports() error {
	now := time.Now()

	ventas, err := r.ventasGen.Generate(now)
	if err != nil {
		return err
	}
	pedidos, err := r.pedidosGen.Generate(now)
	if err != nil {
		return err
	}

	r.logger.Info("Reportes regenerados: %d registros de ventas, %d de pedidos", ventas, pedidos)
	return nil
}

// StartScheduler programa la ejecución periódica del ETL y bloquea hasta
// que el contexto sea cancelado
func (r *ETLRunner) StartScheduler(ctx context.Context) {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	interval := time.Duration(r.config.RunIntervalDays) * 24 * time.Hour
	r.logger.Info("Iniciando el planificador del ETL con intervalo de %v", interval)

	// StartImmediately dispara la primera ejecución dentro del planificador,
	// de modo que el modo singleton también la protege de solapamientos
	_, err := scheduler.Every(interval).StartImmediately().Do(func() {
		r.logger.Info("Ejecución programada del proceso ETL")
		if err := r.ExecuteETL(); err != nil {
			r.logger.Error("Error en la ejecución programada del ETL: %v", err)
		}
	})
	if err != nil {
		r.logger.Error("Error configurando el planificador: %v", err)
		return
	}

	scheduler.StartAsync()
	<-ctx.Done()

	scheduler.Stop()
	r.logger.Info("Planificador del ETL detenido")
}

// maxFacturaID devuelve el id de factura más alto cargado en esta ejecución
func maxFacturaID(rows []models.FacturaRow) int {
	max := 0
	for _, row := range rows {
		if row.ID > max {
			max = row.ID
		}
	}
	return max
}

// RunOnce ejecuta el proceso ETL una sola vez y termina con código de
// salida distinto de cero si alguna fase falla
func RunOnce() error {
	runner, err := NewETLRunner()
	if err != nil {
		log.Printf("Error creando el ETL Runner: %v", err)
		return err
	}
	defer runner.Close()

	if err := runner.ExecuteETL(); err != nil {
		log.Printf("Error ejecutando el ETL: %v", err)
		return err
	}
	return nil
}

// RunReportes regenera las tablas de reporte sin ejecutar el pipeline
func RunReportes() error {
	runner, err := NewETLRunner()
	if err != nil {
		log.Printf("Error creando el ETL Runner: %v", err)
		return err
	}
	defer runner.Close()

	if err := runner.GenerateReports(); err != nil {
		log.Printf("Error regenerando los reportes: %v", err)
		return err
	}
	return nil
}
