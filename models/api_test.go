package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{"número", `12500.5`, 12500.5},
		{"cadena numérica", `"12500.5"`, 12500.5},
		{"entero como cadena", `"30"`, 30},
		{"null", `null`, 0},
		{"cadena vacía", `""`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f FlexFloat
			require.NoError(t, json.Unmarshal([]byte(tc.input), &f))
			require.Equal(t, tc.want, f.Float())
		})
	}
}

func TestFlexFloatUnmarshalInvalido(t *testing.T) {
	var f FlexFloat
	err := json.Unmarshal([]byte(`"no-es-un-numero"`), &f)
	require.Error(t, err)
}

func TestInvoiceDecodificacion(t *testing.T) {
	// Respuesta representativa de /invoices: id numérico, totalPaid como
	// cadena y una línea sin precio
	raw := `{
		"id": 4521,
		"date": "2024-03-15",
		"datetime": "2024-03-15 10:30:00",
		"totalPaid": "45000",
		"paymentMethod": "cash",
		"client": {"id": "88", "name": "Cliente Uno"},
		"items": [
			{"id": 7, "name": "Producto A", "price": 15000, "quantity": 3, "total": 45000},
			{"id": 8, "name": "Producto B", "price": null, "quantity": 1}
		]
	}`

	var inv Invoice
	require.NoError(t, json.Unmarshal([]byte(raw), &inv))

	require.Equal(t, "4521", inv.ID.String())
	require.Equal(t, 45000.0, inv.TotalPaid.Float())
	require.Equal(t, "Cliente Uno", inv.Client.Name)
	require.Nil(t, inv.Seller)
	require.Len(t, inv.Items, 2)
	require.Equal(t, 15000.0, inv.Items[0].Price.Float())
	require.Nil(t, inv.Items[1].Price)
}

func TestCustomFieldValueString(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"cadena", `"7701234567890"`, "7701234567890"},
		{"número", `123`, "123"},
		{"null", `null`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			field := CustomField{Name: "Código de barras", Value: json.RawMessage(tc.value)}
			require.Equal(t, tc.want, field.ValueString())
		})
	}
}
