package extractors

import (
	"github.com/jupabego97/nanotronics-etl/alegra"
	"github.com/jupabego97/nanotronics-etl/models"
	"github.com/jupabego97/nanotronics-etl/utils"
)

// ItemExtractor extrae el catálogo completo de items. A diferencia de las
// facturas, el catálogo no es incremental: se descarga entero en cada
// ejecución y la tabla items se reemplaza.
type ItemExtractor struct {
	client   *alegra.Client
	logger   *utils.ETLLogger
	pageSize int
}

// NewItemExtractor crea una nueva instancia de ItemExtractor
func NewItemExtractor(client *alegra.Client, logger *utils.ETLLogger, pageSize int) *ItemExtractor {
	return &ItemExtractor{
		client:   client,
		logger:   logger,
		pageSize: pageSize,
	}
}

// ExtractItems descarga el catálogo completo según el total que reporta la API
func (e *ItemExtractor) ExtractItems() ([]models.Item, error) {
	total, err := e.client.GetItemsTotal()
	if err != nil {
		return nil, err
	}

	if total == 0 {
		e.logger.Info("La API no reporta items en el catálogo")
		return nil, nil
	}

	var items []models.Item
	for start := 0; start < total; start += e.pageSize {
		page, err := e.client.GetItems(start, e.pageSize)
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
	}

	e.logger.Info("Total de items extraídos: %d", len(items))
	return items, nil
}
