package utils

import (
	"fmt"
	"log"
	"os"
	"time"
)

// ETLLogger representa el logger del proceso ETL.
// Escribe cada entrada en un archivo de log diario y en la salida estándar.
type ETLLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
}

// NewETLLogger crea una nueva instancia del logger del ETL
func NewETLLogger(verbose bool) *ETLLogger {
	// Creamos o abrimos el archivo de log del día
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("No se pudo abrir o crear el archivo de log: %v", err)
	}

	// Inicializamos los loggers para cada nivel
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &ETLLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// Info registra un mensaje informativo
func (l *ETLLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// También lo mostramos en la salida estándar
	log.Println("INFO:", msg)
}

// Error registra un mensaje de error
func (l *ETLLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// También lo mostramos en la salida estándar
	log.Println("ERROR:", msg)
}

// Debug registra un mensaje de depuración (solo en modo verbose)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// También lo mostramos en la salida estándar
	log.Println("DEBUG:", msg)
}

// LogETLStart registra el inicio del proceso ETL
func (l *ETLLogger) LogETLStart() {
	l.Info("Inicio del proceso ETL")
}

// LogETLComplete registra la finalización del proceso ETL
func (l *ETLLogger) LogETLComplete(startTime time.Time, facturas, compras, items int) {
	duration := time.Since(startTime)
	l.Info("Proceso ETL finalizado. Duración: %v", duration)
	l.Info("Procesadas: %d líneas de facturas, %d líneas de compras, %d items", facturas, compras, items)
}

// LogExtractStart registra el inicio de la fase de extracción
func (l *ETLLogger) LogExtractStart() {
	l.Info("Inicio de la fase Extract (extracción de datos de Alegra)")
}

// LogExtractComplete registra la finalización de la fase de extracción
func (l *ETLLogger) LogExtractComplete(facturas, compras, items int, duration time.Duration) {
	l.Info("Fase Extract finalizada. Duración: %v", duration)
	l.Info("Extraídas: %d facturas, %d facturas de proveedor, %d items", facturas, compras, items)
}
