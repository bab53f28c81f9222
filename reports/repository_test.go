package reports

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildInsertQuery(t *testing.T) {
	query := buildInsertQuery("reportes_ventas_30dias", []string{"nombre", "precio"}, 3)
	require.Equal(t,
		"INSERT INTO reportes_ventas_30dias (nombre, precio) VALUES ($1, $2), ($3, $4), ($5, $6)",
		query)
}

func TestBuildInsertQueryUnaFila(t *testing.T) {
	query := buildInsertQuery("para_pedidos", []string{"nombre"}, 1)
	require.Equal(t, "INSERT INTO para_pedidos (nombre) VALUES ($1)", query)
}
