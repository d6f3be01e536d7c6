package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the document as Markdown string.
func RenderMarkdown(d *Document) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Paperhands Report\n\n")
	sb.WriteString(fmt.Sprintf("Address: `%s`\n\n", d.Address))
	sb.WriteString(fmt.Sprintf("Generated: %s | Run: %s | Method: %s\n\n",
		d.GeneratedAt.Format(time.RFC3339), d.RunID, d.Method))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Spent (SOL) | %s |\n", d.Summary.Spent))
	sb.WriteString(fmt.Sprintf("| Earned (SOL) | %s |\n", d.Summary.Earned))
	sb.WriteString(fmt.Sprintf("| Profit (SOL) | %s |\n", d.Summary.Profit))
	sb.WriteString(fmt.Sprintf("| Holdings | %d |\n", d.Summary.Holdings))
	sb.WriteString(fmt.Sprintf("| Assets Traded | %d |\n", d.Summary.Assets))
	sb.WriteString(fmt.Sprintf("| Paperhanded | %d |\n", d.Summary.Paperhanded))
	sb.WriteString(fmt.Sprintf("| Diamondhanded | %d |\n", d.Summary.Diamondhanded))
	sb.WriteString(fmt.Sprintf("| Unclassified | %d |\n", d.Summary.Unclassified))
	sb.WriteString("\n")

	// Data quality
	sb.WriteString("## History\n\n")
	sb.WriteString(fmt.Sprintf("Signatures: %d | Batches: %d | Trades: %d | Ignored: %d | Skipped: %d\n\n",
		d.History.Signatures, d.History.Batches, d.History.Events, d.History.Ignored, d.History.Skipped))
	sb.WriteString(fmt.Sprintf("Price lookups: %d requested, %d fetched, %d without listings, %d failed\n\n",
		d.Pricing.Requested, d.Pricing.Fetched, d.Pricing.NoListings, d.Pricing.Failed))

	// Assets
	sb.WriteString("## Assets\n\n")
	if len(d.Assets) == 0 {
		sb.WriteString("No marketplace trades found.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("| Mint | Name | Held | Bought | Sold | %s | Hands |\n", titleCase(d.Method)))
	sb.WriteString("|------|------|------|--------|------|------|-------|\n")
	for _, a := range d.Assets {
		held := "no"
		if a.Held {
			held = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			a.Mint, orDash(a.Name), held, optional(a.BoughtAt), optional(a.SoldAt), orDash(a.Prices[d.Method]), hands(a)))
	}

	return sb.String()
}

func hands(a AssetView) string {
	switch {
	case a.Paperhanded == nil:
		return "-"
	case *a.Paperhanded:
		return "paper"
	default:
		return "diamond"
	}
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
