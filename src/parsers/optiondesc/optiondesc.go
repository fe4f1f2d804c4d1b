// Package optiondesc extracts option identities from free-text trade descriptions.
package optiondesc

import (
	"regexp"

	"github.com/username/tradeperf/src/models"
)

// ticker, MM/DD/YY expiration, P|C flag, whole-number strike
var optionRe = regexp.MustCompile(`(\w+)\s+(\d{2}/\d{2}/\d{2})\s+([PC])\s+(\d+)`)

// Parse searches description for an option identity such as "PLTR 01/19/24 C 25".
// It returns false with the empty identity when nothing matches; that is an
// ordinary outcome, not an error.
func Parse(description string) (models.OptionIdentity, bool) {
	m := optionRe.FindStringSubmatch(description)
	if m == nil {
		return models.OptionIdentity{}, false
	}
	return models.OptionIdentity{
		Ticker:     m[1],
		Expiration: m[2],
		Type:       models.OptionType(m[3]),
		Strike:     m[4],
	}, true
}
