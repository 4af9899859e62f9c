package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cotizador/backend/internal/domain"
)

// maxResultsPerSection caps how many matches a sub-query prints. The total
// still counts every match, printed or not.
const maxResultsPerSection = 5

// advisoryThreshold is the combined (non-deduplicated) match count above
// which the narrowing advisory is appended.
const advisoryThreshold = 3

const advisory = "Hay muchos resultados. Para una cotizacion mas precisa, especifique tipo, marca o caracteristica del producto."

// Section is one sub-query's input to the narrative rendering.
type Section struct {
	Query   string
	Results []domain.MatchResult
}

// Narrative renders match results as a human-readable text summary: per
// sub-query, a header and up to five matches with prices, segment and score,
// followed by an estimated cash total over all matches of all sub-queries.
// Duplicates across sub-queries count toward the total; the total is not
// deduplicated the way the structured combined view is.
func Narrative(sections []Section) string {
	var b strings.Builder
	total := decimal.Zero
	matchCount := 0

	for _, sec := range sections {
		fmt.Fprintf(&b, "Resultados para %q:\n", sec.Query)
		if len(sec.Results) == 0 {
			b.WriteString("  Sin coincidencias.\n\n")
			continue
		}

		for i, r := range sec.Results {
			if i < maxResultsPerSection {
				fmt.Fprintf(&b, "  - %s | Contado: %s | Tarjeta: %s | Segmento: %s | Score: %d\n",
					r.Description,
					FormatMoney(ParsePrice(r.CashPrice)),
					FormatMoney(ParsePrice(r.CardPrice)),
					r.Segment,
					r.Score)
			}
			total = total.Add(ParsePrice(r.CashPrice))
			matchCount++
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Total estimado (contado): %s\n", FormatMoney(total))
	if matchCount > advisoryThreshold {
		b.WriteString(advisory + "\n")
	}
	return b.String()
}
