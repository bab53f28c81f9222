package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/jupabego97/nanotronics-etl/models"
)

// ConnectDatabase establece la conexión con la base de datos PostgreSQL de destino
func ConnectDatabase(cfg ETLConfig) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("variable DATABASE_URL no configurada")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, models.NewStageError(models.StageLoad, models.DestinationConnectionError,
			fmt.Errorf("error abriendo la conexión a PostgreSQL: %w", err))
	}

	// Parámetros del pool de conexiones
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verificamos la conexión
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, models.NewStageError(models.StageLoad, models.DestinationConnectionError,
			fmt.Errorf("no se pudo establecer la conexión con PostgreSQL: %w", err))
	}

	log.Println("Conexión a PostgreSQL establecida")
	return db, nil
}

// CloseDatabase cierra la conexión con la base de datos de destino
func CloseDatabase(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		log.Printf("Error al cerrar la conexión con PostgreSQL: %v", err)
		return
	}
	log.Println("Conexión a PostgreSQL cerrada")
}
