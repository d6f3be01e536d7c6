package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders one row per asset.
func RenderCSV(d *Document) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{"mint", "name", "held", "exchange", "bought_at", "sold_at", "creator", d.Method, "hands"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, a := range d.Assets {
		row := []string{
			a.Mint,
			a.Name,
			strconv.FormatBool(a.Held),
			a.Exchange,
			valueOrEmpty(a.BoughtAt),
			valueOrEmpty(a.SoldAt),
			a.Creator,
			a.Prices[d.Method],
			strings.TrimPrefix(hands(a), "-"),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
