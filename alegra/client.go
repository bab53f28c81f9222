package alegra

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jupabego97/nanotronics-etl/config"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// Client es el cliente HTTP de la API de Alegra.
// Las páginas se piden de forma secuencial; los errores 429 y los fallos de
// red se reintentan con espera, cualquier otro estado aborta de inmediato.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *utils.ETLLogger

	maxRetries        int
	retryDelay429     time.Duration
	networkErrorDelay time.Duration
}

// NewClient crea un nuevo cliente de la API de Alegra
func NewClient(cfg config.APIConfig, logger *utils.ETLLogger) *Client {
	return &Client{
		baseURL:           cfg.BaseURL,
		apiKey:            cfg.APIKey,
		http:              &http.Client{Timeout: cfg.Timeout},
		logger:            logger,
		maxRetries:        cfg.MaxRetries,
		retryDelay429:     cfg.RetryDelay429,
		networkErrorDelay: cfg.NetworkErrorDelay,
	}
}

// getJSON ejecuta un GET contra la API con la política de reintentos y
// decodifica la respuesta JSON en out
func (c *Client) getJSON(path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			return models.NewStageError(models.StageExtract, models.SourceQueryError,
				fmt.Errorf("error construyendo la petición %s: %w", path, err))
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", "Basic "+c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			// Fallo de red: esperamos y reintentamos
			lastErr = err
			c.logger.Error("Excepción de red en %s: %v. Esperando %v antes de reintentar (intento %d/%d)",
				path, err, c.networkErrorDelay, attempt, c.maxRetries)
			time.Sleep(c.networkErrorDelay)
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err = json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return models.NewStageError(models.StageExtract, models.SourceQueryError,
					fmt.Errorf("error decodificando la respuesta de %s: %w", path, err))
			}
			return nil

		case http.StatusTooManyRequests:
			// Límite de cuota de Alegra: esperamos el periodo indicado
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("estado HTTP 429")
			c.logger.Error("Error 429 en %s. Esperando %v antes de reintentar (intento %d/%d)",
				path, c.retryDelay429, attempt, c.maxRetries)
			time.Sleep(c.retryDelay429)
			continue

		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return models.NewStageError(models.StageExtract, models.SourceQueryError,
				fmt.Errorf("estado HTTP %d en %s", resp.StatusCode, path))
		}
	}

	c.logger.Error("Fallo definitivo en %s tras %d intentos", path, c.maxRetries)
	return models.NewStageError(models.StageExtract, models.SourceConnectionError,
		fmt.Errorf("no se pudo consultar %s tras %d intentos: %w", path, c.maxRetries, lastErr))
}

// GetInvoices obtiene una página de facturas de venta ordenadas por id ascendente
func (c *Client) GetInvoices(start, limit int) ([]models.Invoice, error) {
	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("order_direction", "ASC")
	query.Set("order_field", "id")

	var invoices []models.Invoice
	if err := c.getJSON("/invoices", query, &invoices); err != nil {
		return nil, err
	}

	c.logger.Debug("Página start=%d extraída con %d facturas", start, len(invoices))
	return invoices, nil
}

// GetLatestInvoiceID obtiene el id de la factura más reciente emitida hasta la fecha dada
func (c *Client) GetLatestInvoiceID(before time.Time) (int, error) {
	query := url.Values{}
	query.Set("date_beforeOrNow", before.Format("2006-01-02"))
	query.Set("order_direction", "DESC")
	query.Set("limit", "1")

	var invoices []models.Invoice
	if err := c.getJSON("/invoices", query, &invoices); err != nil {
		return 0, err
	}

	if len(invoices) == 0 {
		return 0, nil
	}

	id, err := strconv.Atoi(invoices[0].ID.String())
	if err != nil {
		return 0, models.NewStageError(models.StageExtract, models.SourceQueryError,
			fmt.Errorf("id de factura no numérico %q: %w", invoices[0].ID.String(), err))
	}

	c.logger.Info("Última factura en la API: %d", id)
	return id, nil
}

// GetBillsByDate obtiene las facturas de proveedor emitidas en un día concreto
func (c *Client) GetBillsByDate(day time.Time) ([]models.Bill, error) {
	query := url.Values{}
	query.Set("limit", "30")
	query.Set("order_field", "date")
	query.Set("type", "bill")
	query.Set("date", day.Format("2006-01-02"))

	var bills []models.Bill
	if err := c.getJSON("/bills", query, &bills); err != nil {
		return nil, err
	}

	c.logger.Debug("Fecha %s extraída con %d facturas de proveedor", day.Format("2006-01-02"), len(bills))
	return bills, nil
}

// GetItemsTotal obtiene el total de items reportado por la API
func (c *Client) GetItemsTotal() (int, error) {
	query := url.Values{}
	query.Set("metadata", "true")

	var meta models.ItemsMetadata
	if err := c.getJSON("/items", query, &meta); err != nil {
		return 0, err
	}

	total, err := strconv.Atoi(meta.Metadata.Total.String())
	if err != nil {
		return 0, models.NewStageError(models.StageExtract, models.SourceQueryError,
			fmt.Errorf("total de items no numérico %q: %w", meta.Metadata.Total.String(), err))
	}

	c.logger.Info("Total de items reportados por la API: %d", total)
	return total, nil
}

// GetItems obtiene una página del catálogo de items ordenada por id
func (c *Client) GetItems(start, limit int) ([]models.Item, error) {
	query := url.Values{}
	query.Set("start", strconv.Itoa(start))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("order_field", "id")

	var items []models.Item
	if err := c.getJSON("/items", query, &items); err != nil {
		return nil, err
	}

	c.logger.Debug("Página start=%d extraída con %d items", start, len(items))
	return items, nil
}
