package arsha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

func TestDecodePrices(t *testing.T) {
	t.Run("array payload", func(t *testing.T) {
		entries, err := decodePrices([]byte(`[
			{"id": 9213, "name": "Beer", "pricePerOne": 4980, "currentStock": 35000},
			{"id": "6656", "name": "Potato", "pricePerOne": 800, "currentStock": 120}
		]`))

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, flexID(9213), entries[0].ID)
		assert.Equal(t, flexID(6656), entries[1].ID, "string-encoded id coerced")
		assert.Equal(t, int64(800), entries[1].PricePerOne)
	})

	t.Run("single object payload", func(t *testing.T) {
		entries, err := decodePrices([]byte(`{"id": 9213, "pricePerOne": 4980, "currentStock": 35000}`))

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, flexID(9213), entries[0].ID)
	})

	t.Run("garbage payload", func(t *testing.T) {
		_, err := decodePrices([]byte(`<html>blocked</html>`))
		assert.Error(t, err)
	})
}

func TestFlexID_Tolerance(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    flexID
	}{
		{"number", `{"id": 42}`, 42},
		{"string", `{"id": "42"}`, 42},
		{"padded string", `{"id": " 42 "}`, 42},
		{"null", `{"id": null}`, 0},
		{"non-numeric", `{"id": "potato"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := decodePrices([]byte("[" + tt.payload + "]"))
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].ID)
		})
	}
}

func TestMergeEntries_DropsPlaceholderRows(t *testing.T) {
	snapshot := make(domain.MarketSnapshot)

	mergeEntries(snapshot, []priceEntry{
		{ID: 100, PricePerOne: 10, CurrentStock: 1},
		{ID: 0, PricePerOne: 999, CurrentStock: 999},
		{ID: -1, PricePerOne: 999, CurrentStock: 999},
	})

	assert.Len(t, snapshot, 1)
	assert.Equal(t, domain.MarketQuote{Price: 10, Stock: 1}, snapshot[100])
}
