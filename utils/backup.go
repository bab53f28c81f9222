package utils

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang/snappy"
)

// BackupWriter exporta la tabla facturas a un CSV comprimido con snappy
// tras cada ejecución exitosa. Es un respaldo operativo, no parte del
// contrato del pipeline: su fallo se registra pero no aborta la ejecución.
type BackupWriter struct {
	db     *sql.DB
	dir    string
	logger *ETLLogger
}

// NewBackupWriter crea una nueva instancia de BackupWriter
func NewBackupWriter(db *sql.DB, dir string, logger *ETLLogger) *BackupWriter {
	return &BackupWriter{
		db:     db,
		dir:    dir,
		logger: logger,
	}
}

// ExportFacturas exporta la tabla completa y devuelve la ruta del archivo
func (w *BackupWriter) ExportFacturas() (string, error) {
	query := `
		SELECT id, item_id, fecha, hora, nombre, precio, cantidad, total,
		       cliente, totalfact, metodo, vendedor
		FROM facturas
		ORDER BY id, indx
	`

	rows, err := w.db.Query(query)
	if err != nil {
		return "", fmt.Errorf("error consultando facturas para el backup: %w", err)
	}
	defer rows.Close()

	header := []string{
		"id", "item_id", "fecha", "hora", "nombre", "precio",
		"cantidad", "total", "cliente", "totalfact", "metodo", "vendedor",
	}

	var records [][]string
	for rows.Next() {
		var (
			id, itemID, cantidad     int
			fecha, hora              time.Time
			nombre, cliente          string
			metodo, vendedor         string
			precio, total, totalFact float64
		)
		err := rows.Scan(&id, &itemID, &fecha, &hora, &nombre, &precio,
			&cantidad, &total, &cliente, &totalFact, &metodo, &vendedor)
		if err != nil {
			return "", fmt.Errorf("error procesando una factura para el backup: %w", err)
		}

		records = append(records, []string{
			strconv.Itoa(id),
			strconv.Itoa(itemID),
			fecha.Format("2006-01-02"),
			hora.Format("2006-01-02 15:04:05"),
			nombre,
			strconv.FormatFloat(precio, 'f', -1, 64),
			strconv.Itoa(cantidad),
			strconv.FormatFloat(total, 'f', -1, 64),
			cliente,
			strconv.FormatFloat(totalFact, 'f', -1, 64),
			metodo,
			vendedor,
		})
	}

	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("error tras iterar las facturas para el backup: %w", err)
	}

	data, err := RenderCSV(header, records)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("error creando el directorio de backups %s: %w", w.dir, err)
	}

	name := fmt.Sprintf("facturas_backup_%s.csv.sz", time.Now().Format("2006-01-02"))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, Comprimir(data), 0644); err != nil {
		return "", fmt.Errorf("error escribiendo el backup en %s: %w", path, err)
	}

	w.logger.Info("Backup exportado a %s (%d registros)", path, len(records))
	return path, nil
}

// RenderCSV serializa el encabezado y los registros en formato CSV
func RenderCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("error escribiendo el encabezado del CSV: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("error escribiendo los registros del CSV: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error finalizando el CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// Comprimir comprime los datos con snappy
func Comprimir(data []byte) []byte {
	return snappy.Encode(nil, data)
}

// Descomprimir descomprime datos comprimidos con snappy
func Descomprimir(data []byte) ([]byte, error) {
	decompressed, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	return decompressed, nil
}
