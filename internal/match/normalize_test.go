package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"OrderID", "orderid"},
		{"order_id", "orderid"},
		{"order-id", "orderid"},
		{"orderId", "orderid"},
		{"ORDERID", "orderid"},
		{"XMLParser", "xmlparser"},
		{"Price_Cents", "pricecents"},
		{"order_item-ID", "orderitemid"},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"customer", "name"}, TokenizeIdent("CustomerName"))
	assert.Equal(t, []string{"get", "http", "response"}, TokenizeIdent("getHTTPResponse"))
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("order_id"))
	assert.Nil(t, TokenizeIdent(""))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("name", "name"))
	assert.Equal(t, 3, Levenshtein("", "abc"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 2, Levenshtein("Nmae", "Name"))

	assert.InDelta(t, 1.0, LevenshteinNormalized("", ""), 1e-9)
	assert.InDelta(t, 1.0, NormalizedLevenshteinScore("order_id", "OrderID"), 1e-9)
}
