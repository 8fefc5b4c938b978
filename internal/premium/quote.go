package premium

import (
	"strconv"
	"strings"
)

// Response keys of the aggregates read from a calculation result. Every
// other key is ignored.
const (
	keyTotalAnnual      = "totalAnnualPremium"
	keyMonthly          = "monthlyPremium"
	keyQuarterly        = "quarterlyPremium"
	keySemiAnnual       = "semiAnnualPremium"
	keyCoveragePremiums = "coveragePremiums"
)

// Quote holds the named premium aggregates.
type Quote struct {
	TotalAnnual float64            `json:"totalAnnual"`
	Monthly     float64            `json:"monthly"`
	Quarterly   float64            `json:"quarterly"`
	SemiAnnual  float64            `json:"semiAnnual"`
	PerCoverage map[string]float64 `json:"perCoverage"`
}

// IsZero reports whether no aggregate was found.
func (q Quote) IsZero() bool {
	return q.TotalAnnual == 0 && q.Monthly == 0 && q.Quarterly == 0 && q.SemiAnnual == 0 && len(q.PerCoverage) == 0
}

// ExtractQuote reads the aggregates from an opaque calculation response.
// Values may be JSON numbers or numeric strings; anything else reads as zero.
func ExtractQuote(resp map[string]any) Quote {
	q := Quote{
		TotalAnnual: number(resp[keyTotalAnnual]),
		Monthly:     number(resp[keyMonthly]),
		Quarterly:   number(resp[keyQuarterly]),
		SemiAnnual:  number(resp[keySemiAnnual]),
		PerCoverage: map[string]float64{},
	}
	if per, ok := resp[keyCoveragePremiums].(map[string]any); ok {
		for coverageID, v := range per {
			q.PerCoverage[coverageID] = number(v)
		}
	}
	return q
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
