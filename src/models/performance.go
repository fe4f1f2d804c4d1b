package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PositionKey identifies a position: a bare ticker for stock, or the
// composite option key built by OptionIdentity.Key. It doubles as the
// user-facing label.
type PositionKey string

// PerformanceRecord holds the aggregated result of a matched position.
// Fields are invalid when an input they depend on was null.
type PerformanceRecord struct {
	Key             PositionKey         `json:"key"`
	TotalQuantity   decimal.NullDecimal `json:"total_quantity"`
	TotalProfitLoss decimal.NullDecimal `json:"total_profit_loss"`
	ReturnPercent   decimal.NullDecimal `json:"return_percent"`
}

// Performance is a PositionKey -> PerformanceRecord mapping that remembers the
// order in which keys were first set. Overwriting a key keeps its position.
type Performance struct {
	keys    []PositionKey
	records map[PositionKey]PerformanceRecord
}

// NewPerformance returns an empty mapping.
func NewPerformance() *Performance {
	return &Performance{records: make(map[PositionKey]PerformanceRecord)}
}

// Set stores rec under key, overwriting any previous record.
func (p *Performance) Set(key PositionKey, rec PerformanceRecord) {
	if p.records == nil {
		p.records = make(map[PositionKey]PerformanceRecord)
	}
	if _, exists := p.records[key]; !exists {
		p.keys = append(p.keys, key)
	}
	rec.Key = key
	p.records[key] = rec
}

// Get returns the record stored under key.
func (p *Performance) Get(key PositionKey) (PerformanceRecord, bool) {
	if p == nil {
		return PerformanceRecord{}, false
	}
	rec, ok := p.records[key]
	return rec, ok
}

// Has reports whether key is present.
func (p *Performance) Has(key PositionKey) bool {
	_, ok := p.Get(key)
	return ok
}

// Len returns the number of positions.
func (p *Performance) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in first-set order.
func (p *Performance) Keys() []PositionKey {
	if p == nil {
		return nil
	}
	return append([]PositionKey(nil), p.keys...)
}

// Records returns the records in first-set order.
func (p *Performance) Records() []PerformanceRecord {
	if p == nil {
		return nil
	}
	out := make([]PerformanceRecord, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, p.records[k])
	}
	return out
}

// MarshalJSON encodes the mapping as an ordered array of records.
func (p *Performance) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Records())
}

// UnmarshalJSON decodes the ordered array form.
func (p *Performance) UnmarshalJSON(data []byte) error {
	var recs []PerformanceRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return err
	}
	*p = Performance{records: make(map[PositionKey]PerformanceRecord, len(recs))}
	for _, rec := range recs {
		p.Set(rec.Key, rec)
	}
	return nil
}

// ReconciliationResult is the engine output.
type ReconciliationResult struct {
	Performance *Performance  `json:"performance"`
	Unresolved  []PositionKey `json:"unresolved"`
}
