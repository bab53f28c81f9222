package alegra

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupabego97/nanotronics-etl/config"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// chdirTemp reemplaza a t.Chdir (Go 1.24) para toolchains anteriores.
func chdirTemp(t *testing.T) {
	t.Helper()
	previo, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(previo) })
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	chdirTemp(t)

	cfg := config.APIConfig{
		BaseURL:    baseURL,
		APIKey:     "clave-de-prueba",
		PageSize:   30,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
		// Esperas mínimas para que los reintentos no alarguen las pruebas
		RetryDelay429:     time.Millisecond,
		NetworkErrorDelay: time.Millisecond,
	}
	return NewClient(cfg, utils.NewETLLogger(false))
}

func TestGetInvoicesEnviaAutenticacionYPaginacion(t *testing.T) {
	var gotAuth, gotStart, gotLimit string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStart = r.URL.Query().Get("start")
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`[{"id": 100, "date": "2024-03-15", "items": []}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	invoices, err := client.GetInvoices(90, 30)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	require.Equal(t, "100", invoices[0].ID.String())

	require.Equal(t, "Basic clave-de-prueba", gotAuth)
	require.Equal(t, "90", gotStart)
	require.Equal(t, "30", gotLimit)
}

func TestGetJSONReintentaTras429(t *testing.T) {
	intentos := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		intentos++
		if intentos == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.GetInvoices(0, 30)
	require.NoError(t, err)
	require.Equal(t, 2, intentos)
}

func TestGetJSONAbortaConEstadoInesperado(t *testing.T) {
	intentos := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		intentos++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.GetInvoices(0, 30)
	require.Error(t, err)
	require.Equal(t, models.SourceQueryError, models.ErrorKindOf(err))
	// Un estado distinto de 429 no se reintenta
	require.Equal(t, 1, intentos)
}

func TestGetJSONAgotaReintentosDeRed(t *testing.T) {
	// Servidor cerrado de inmediato: todas las peticiones fallan por red
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := testClient(t, server.URL)
	_, err := client.GetInvoices(0, 30)
	require.Error(t, err)
	require.Equal(t, models.SourceConnectionError, models.ErrorKindOf(err))
	require.Equal(t, models.StageExtract, models.StageOf(err))
}

func TestGetLatestInvoiceID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2024-06-01", r.URL.Query().Get("date_beforeOrNow"))
		require.Equal(t, "DESC", r.URL.Query().Get("order_direction"))
		w.Write([]byte(`[{"id": "4521", "date": "2024-05-30", "items": []}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	id, err := client.GetLatestInvoiceID(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 4521, id)
}

func TestGetLatestInvoiceIDSinFacturas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	id, err := client.GetLatestInvoiceID(time.Now())
	require.NoError(t, err)
	require.Equal(t, 0, id)
}

func TestGetItemsTotal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("metadata"))
		w.Write([]byte(`{"metadata": {"total": "1250"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	total, err := client.GetItemsTotal()
	require.NoError(t, err)
	require.Equal(t, 1250, total)
}

func TestGetBillsByDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2024-02-10", r.URL.Query().Get("date"))
		require.Equal(t, "bill", r.URL.Query().Get("type"))
		w.Write([]byte(`[{"id": 300, "date": "2024-02-10", "total": 250000,
			"provider": {"id": 5, "name": "Distribuidora Norte"},
			"purchases": {"items": [{"id": 7, "name": "Producto A", "price": 12500, "quantity": 10}]}}]`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	bills, err := client.GetBillsByDate(time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, bills, 1)
	require.Equal(t, "Distribuidora Norte", bills[0].Provider.Name)
	require.Len(t, bills[0].Purchases.Items, 1)
}
