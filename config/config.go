package config

import (
	"os"
	"strconv"
	"time"
)

// ETLConfig contiene la configuración del proceso ETL.
// Se construye una vez al inicio y se pasa explícitamente al runner:
// ningún componente lee el entorno por su cuenta.
type ETLConfig struct {
	// URL de conexión a la base de datos PostgreSQL de destino
	DatabaseURL string

	// Configuración del cliente de la API de Alegra
	API APIConfig

	// Intervalo entre ejecuciones programadas (en días)
	RunIntervalDays int

	// Ventana del reporte de ventas (en días)
	ReportWindowDays int

	// Tamaño de los lotes de inserción en las tablas de reporte
	InsertBatchSize int

	// Exportar backup comprimido de facturas tras cada ejecución exitosa
	EnableBackup bool

	// Directorio donde se escriben los backups
	BackupDir string

	// Dirección del servidor HTTP de estado (vacía lo desactiva)
	StatusAddr string

	// Habilita el logging detallado
	EnableDetailedLogging bool
}

// APIConfig contiene los parámetros de acceso a la API de Alegra
type APIConfig struct {
	BaseURL string
	APIKey  string

	// Registros por página en las consultas paginadas
	PageSize int

	// Timeout de cada petición HTTP
	Timeout time.Duration

	// Reintentos por página antes de abortar
	MaxRetries int

	// Espera tras una respuesta 429 (límite de cuota de Alegra)
	RetryDelay429 time.Duration

	// Espera tras un error de red
	NetworkErrorDelay time.Duration
}

// Valores de configuración por defecto
var DefaultETLConfig = ETLConfig{
	API: APIConfig{
		BaseURL:           "https://api.alegra.com/api/v1",
		PageSize:          30,
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		RetryDelay429:     60 * time.Second,
		NetworkErrorDelay: 5 * time.Second,
	},
	RunIntervalDays:       3,
	ReportWindowDays:      30,
	InsertBatchSize:       500,
	EnableBackup:          true,
	BackupDir:             ".",
	StatusAddr:            ":8080",
	EnableDetailedLogging: true,
}

// GetConfig devuelve la configuración del ETL a partir de las variables
// de entorno, con los valores por defecto para lo que no esté definido
func GetConfig() ETLConfig {
	cfg := DefaultETLConfig

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.API.APIKey = os.Getenv("ALEGRA_API_KEY")

	cfg.API.BaseURL = envString("ALEGRA_API_URL", cfg.API.BaseURL)
	cfg.RunIntervalDays = envInt("ETL_RUN_INTERVAL_DAYS", cfg.RunIntervalDays)
	cfg.ReportWindowDays = envInt("ETL_REPORT_WINDOW_DAYS", cfg.ReportWindowDays)
	cfg.InsertBatchSize = envInt("ETL_INSERT_BATCH_SIZE", cfg.InsertBatchSize)
	cfg.EnableBackup = envBool("ETL_ENABLE_BACKUP", cfg.EnableBackup)
	cfg.BackupDir = envString("ETL_BACKUP_DIR", cfg.BackupDir)
	cfg.StatusAddr = envString("ETL_STATUS_ADDR", cfg.StatusAddr)
	cfg.EnableDetailedLogging = envBool("ETL_VERBOSE", cfg.EnableDetailedLogging)

	// Railway expone el puerto del servicio en PORT
	if port := os.Getenv("PORT"); port != "" {
		cfg.StatusAddr = ":" + port
	}

	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
