package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageErrorClasificacion(t *testing.T) {
	causa := errors.New("connection refused")
	err := NewStageError(StageExtract, SourceConnectionError, causa)

	require.Equal(t, SourceConnectionError, ErrorKindOf(err))
	require.Equal(t, StageExtract, StageOf(err))
	require.ErrorIs(t, err, causa)
}

func TestStageErrorEnvuelto(t *testing.T) {
	// La clasificación debe sobrevivir a envolturas posteriores con %w
	err := NewStageError(StageLoad, DestinationConnectionError, errors.New("tx begin"))
	envuelto := fmt.Errorf("error en la fase Load: %w", err)

	require.Equal(t, DestinationConnectionError, ErrorKindOf(envuelto))
	require.Equal(t, StageLoad, StageOf(envuelto))
}

func TestErrorSinClasificar(t *testing.T) {
	err := errors.New("cualquier otro error")

	require.Equal(t, ErrorKind(""), ErrorKindOf(err))
	require.Equal(t, Stage(""), StageOf(err))
}
