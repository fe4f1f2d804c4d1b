package models

import "fmt"

// OptionType is the single-letter flag used in option descriptions.
type OptionType string

const (
	Call OptionType = "C"
	Put  OptionType = "P"
)

// String returns "Call" or "Put", or the raw flag for anything else.
func (t OptionType) String() string {
	switch t {
	case Call:
		return "Call"
	case Put:
		return "Put"
	default:
		return string(t)
	}
}

// OptionIdentity is the structured identity parsed out of an option description,
// e.g. "PLTR 01/19/24 C 25". The zero value is the empty identity.
type OptionIdentity struct {
	Ticker     string     `json:"ticker"`
	Expiration string     `json:"expiration"` // MM/DD/YY token as written in the description
	Type       OptionType `json:"type"`
	Strike     string     `json:"strike"` // whole-number digits as written
}

// IsZero reports whether this is the empty identity.
func (o OptionIdentity) IsZero() bool {
	return o == OptionIdentity{}
}

// Key returns the composite position key "{ticker} {expiration} {type} {strike}".
func (o OptionIdentity) Key() PositionKey {
	return PositionKey(fmt.Sprintf("%s %s %s %s", o.Ticker, o.Expiration, o.Type, o.Strike))
}
