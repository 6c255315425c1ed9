package arsha

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/monsirenc/BDO-Market-Scanner/internal/domain"
)

// flexID tolerates item ids encoded as JSON numbers or strings, which the
// upstream mixes freely between endpoints.
type flexID int

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexID(n)
	return nil
}

// priceEntry is one item in a v2 price response.
type priceEntry struct {
	ID           flexID `json:"id"`
	Name         string `json:"name"`
	PricePerOne  int64  `json:"pricePerOne"`
	CurrentStock int64  `json:"currentStock"`
}

// decodePrices parses a price payload. Multi-id queries answer with a JSON
// array, single-id queries with a bare object.
func decodePrices(body []byte) ([]priceEntry, error) {
	var list []priceEntry
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var single priceEntry
	if err := json.Unmarshal(body, &single); err == nil {
		return []priceEntry{single}, nil
	}

	return nil, fmt.Errorf("unrecognized price payload: %s", truncate(body, 120))
}

// mergeEntries folds decoded entries into the snapshot, dropping the id-0
// placeholder rows the API pads failed lookups with.
func mergeEntries(snapshot domain.MarketSnapshot, entries []priceEntry) {
	for _, e := range entries {
		id := int(e.ID)
		if id <= 0 {
			continue
		}
		snapshot[id] = domain.MarketQuote{
			Price: e.PricePerOne,
			Stock: e.CurrentStock,
		}
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
