package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Estructuras de los datos crudos que devuelve la API de Alegra.
// La forma la define la fuente, no este sistema: los campos numéricos pueden
// llegar como número o como cadena, y varios son opcionales.

// FlexFloat es un float64 que acepta número JSON, cadena numérica o null
type FlexFloat float64

// UnmarshalJSON implementa la decodificación flexible de montos de Alegra
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("monto no numérico %q: %w", s, err)
	}
	*f = FlexFloat(v)
	return nil
}

// Float devuelve el valor como float64
func (f FlexFloat) Float() float64 {
	return float64(f)
}

// NamedRef representa una referencia con nombre (cliente, vendedor, proveedor)
type NamedRef struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

// InvoiceItem es una línea de factura o de compra
type InvoiceItem struct {
	ID       json.Number `json:"id"`
	Name     string      `json:"name"`
	Price    *FlexFloat  `json:"price"`
	Quantity FlexFloat   `json:"quantity"`
	Total    *FlexFloat  `json:"total"`
}

// Invoice es una factura de venta tal como la devuelve /invoices
type Invoice struct {
	ID            json.Number   `json:"id"`
	Date          string        `json:"date"`
	Datetime      string        `json:"datetime"`
	TotalPaid     *FlexFloat    `json:"totalPaid"`
	PaymentMethod *string       `json:"paymentMethod"`
	Client        *NamedRef     `json:"client"`
	Seller        *NamedRef     `json:"seller"`
	Items         []InvoiceItem `json:"items"`
}

// BillPurchases agrupa las líneas de una factura de proveedor
type BillPurchases struct {
	Items []InvoiceItem `json:"items"`
}

// Bill es una factura de proveedor tal como la devuelve /bills
type Bill struct {
	ID        json.Number    `json:"id"`
	Date      string         `json:"date"`
	Total     *FlexFloat     `json:"total"`
	Provider  *NamedRef      `json:"provider"`
	Purchases *BillPurchases `json:"purchases"`
}

// CustomField es un campo personalizado de un item del catálogo
type CustomField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// ValueString devuelve el valor del campo como cadena, sin comillas JSON
func (c CustomField) ValueString() string {
	s := strings.TrimSpace(string(c.Value))
	if s == "null" || s == "" {
		return ""
	}
	return strings.Trim(s, `"`)
}

// PriceEntry es una entrada de la lista de precios de un item
type PriceEntry struct {
	Price FlexFloat `json:"price"`
}

// ItemInventory contiene los datos de inventario de un item
type ItemInventory struct {
	AvailableQuantity   *FlexFloat `json:"availableQuantity"`
	InitialQuantityDate string     `json:"initialQuantityDate"`
}

// Item es un producto del catálogo tal como lo devuelve /items
type Item struct {
	ID           json.Number    `json:"id"`
	Name         string         `json:"name"`
	CustomFields []CustomField  `json:"customFields"`
	Price        []PriceEntry   `json:"price"`
	Inventory    *ItemInventory `json:"inventory"`
}

// ItemsMetadata es la respuesta de /items?metadata=true
type ItemsMetadata struct {
	Metadata struct {
		Total json.Number `json:"total"`
	} `json:"metadata"`
}
