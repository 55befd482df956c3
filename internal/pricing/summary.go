package pricing

import "github.com/shopspring/decimal"

// Entry is one priced quantity fed to Sum.
type Entry struct {
	Price    string
	Quantity int
}

// Summary is the outcome of summing entries. Entries whose price could not
// be parsed contribute nothing and are listed by index in Skipped.
type Summary struct {
	Amount    decimal.Decimal
	Formatted string
	Skipped   []int
}

// Sum adds price × quantity over entries, skipping unparseable prices.
func Sum(entries []Entry) Summary {
	total := decimal.Zero
	var skipped []int
	for i, e := range entries {
		price, err := Parse(e.Price)
		if err != nil {
			skipped = append(skipped, i)
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return Summary{
		Amount:    total,
		Formatted: FormatBRL(total),
		Skipped:   skipped,
	}
}
