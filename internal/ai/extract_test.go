package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	type analysis struct {
		LikelyMedicine bool   `json:"likely_medicine"`
		ProductName    string `json:"product_name"`
		Confidence     string `json:"confidence"`
	}

	t.Run("object embedded in prose", func(t *testing.T) {
		text := `Sure! Based on the barcode this looks like a medication:
{"likely_medicine": true, "product_name": "Amoxicillin 500mg", "confidence": "high"}
Let me know if you need anything else.`

		var out analysis
		require.True(t, ExtractJSON(text, &out))
		assert.True(t, out.LikelyMedicine)
		assert.Equal(t, "Amoxicillin 500mg", out.ProductName)
		assert.Equal(t, "high", out.Confidence)
	})

	t.Run("markdown fenced object", func(t *testing.T) {
		text := "```json\n{\"product_name\": \"Ibuprofen\"}\n```"

		var out analysis
		require.True(t, ExtractJSON(text, &out))
		assert.Equal(t, "Ibuprofen", out.ProductName)
	})

	t.Run("no braces", func(t *testing.T) {
		var out analysis
		assert.False(t, ExtractJSON("I could not identify this product.", &out))
	})

	t.Run("malformed json between braces", func(t *testing.T) {
		var out analysis
		assert.False(t, ExtractJSON(`{"product_name": "Ibuprofen`+"}", &out))
	})

	t.Run("braces in wrong order", func(t *testing.T) {
		var out analysis
		assert.False(t, ExtractJSON("} nothing here {", &out))
	})
}
