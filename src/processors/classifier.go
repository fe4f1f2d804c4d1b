package processors

import (
	"strings"

	"github.com/username/tradeperf/src/models"
)

// Category names a transaction subset.
type Category string

const (
	CategoryBuy  Category = "Buy"
	CategorySell Category = "Sell"
	CategoryBTO  Category = "BTO"
	CategorySTO  Category = "STO"
	CategoryACH  Category = "ACH"
)

// Categories lists every category in partition order.
var Categories = []Category{CategoryBuy, CategorySell, CategoryBTO, CategorySTO, CategoryACH}

// DefaultTransCodes maps each category to the substring looked for in the
// Trans Code column.
var DefaultTransCodes = map[Category]string{
	CategoryBuy:  "Buy",
	CategorySell: "Sell",
	CategoryBTO:  "BTO",
	CategorySTO:  "STO",
	CategoryACH:  "ACH",
}

// Partitions holds the classified subsets. A row lands in every subset whose
// match string its Trans Code contains; rows keep their input order.
type Partitions struct {
	Buy  []models.Transaction
	Sell []models.Transaction
	BTO  []models.Transaction
	STO  []models.Transaction
	ACH  []models.Transaction
}

// TransactionClassifier assigns rows to categories by case-sensitive substring
// match on the Trans Code.
type TransactionClassifier struct {
	codes map[Category]string
}

// NewTransactionClassifier builds a classifier. Missing, blank or unknown
// override entries fall back to the defaults.
func NewTransactionClassifier(overrides map[Category]string) *TransactionClassifier {
	codes := make(map[Category]string, len(DefaultTransCodes))
	for cat, code := range DefaultTransCodes {
		codes[cat] = code
	}
	for cat, code := range overrides {
		if _, known := codes[cat]; !known || strings.TrimSpace(code) == "" {
			continue
		}
		codes[cat] = code
	}
	return &TransactionClassifier{codes: codes}
}

// Code returns the match string for cat.
func (c *TransactionClassifier) Code(cat Category) string {
	return c.codes[cat]
}

// Matches reports whether transCode belongs to cat. An empty code matches nothing.
func (c *TransactionClassifier) Matches(cat Category, transCode string) bool {
	if transCode == "" {
		return false
	}
	code, ok := c.codes[cat]
	if !ok || code == "" {
		return false
	}
	return strings.Contains(transCode, code)
}

// Partition splits txs into the category subsets.
func (c *TransactionClassifier) Partition(txs []models.Transaction) Partitions {
	var p Partitions
	for _, tx := range txs {
		for _, cat := range Categories {
			if c.Matches(cat, tx.TransCode) {
				p.add(cat, tx)
			}
		}
	}
	return p
}

func (p *Partitions) add(cat Category, tx models.Transaction) {
	switch cat {
	case CategoryBuy:
		p.Buy = append(p.Buy, tx)
	case CategorySell:
		p.Sell = append(p.Sell, tx)
	case CategoryBTO:
		p.BTO = append(p.BTO, tx)
	case CategorySTO:
		p.STO = append(p.STO, tx)
	case CategoryACH:
		p.ACH = append(p.ACH, tx)
	}
}
