package models

import (
	"errors"
	"fmt"
)

// Stage identifica la etapa del proceso ETL en la que ocurrió un error
type Stage string

const (
	StageExtract   Stage = "extract"
	StageTransform Stage = "transform"
	StageLoad      Stage = "load"
	StageReport    Stage = "report"
)

// ErrorKind clasifica los errores terminales de una ejecución.
// Ningún error se reintenta dentro de la misma ejecución: la recuperación
// queda a cargo de la siguiente ejecución programada.
type ErrorKind string

const (
	SourceConnectionError      ErrorKind = "source_connection"
	SourceQueryError           ErrorKind = "source_query"
	TransformError             ErrorKind = "transform"
	DestinationConnectionError ErrorKind = "destination_connection"
	LoadError                  ErrorKind = "load"
)

// StageError asocia un error con la etapa y la clase de fallo que lo produjo,
// para que cada entrada del log permita diagnosticar sin correlacionar procesos
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

// NewStageError crea un StageError envolviendo la causa original
func NewStageError(stage Stage, kind ErrorKind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Error implementa la interfaz error
func (e *StageError) Error() string {
	return fmt.Sprintf("etapa %s (%s): %v", e.Stage, e.Kind, e.Err)
}

// Unwrap permite inspeccionar la causa original con errors.Is/As
func (e *StageError) Unwrap() error {
	return e.Err
}

// ErrorKindOf devuelve la clase del error si es un StageError,
// o cadena vacía si no lo es
func ErrorKindOf(err error) ErrorKind {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Kind
	}
	return ""
}

// StageOf devuelve la etapa en la que falló el error, o cadena vacía
func StageOf(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}
	return ""
}
