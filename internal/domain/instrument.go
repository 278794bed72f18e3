// internal/domain/instrument.go
package domain

import (
	"regexp"
	"strings"
)

// NativeInstrument is the fee denomination of the network.
const NativeInstrument = "$ZRA+0000"

// genericSuffix marks the symbol-family key of an instrument series.
const genericSuffix = "0000"

var instrumentPattern = regexp.MustCompile(`^(\$[A-Za-z]+)\+\d{4}$`)

// ValidateInstrumentID rejects absent identifiers. Identifiers are otherwise
// opaque strings, the canonical "$SYMBOL+NNNN" format matters only for
// symbol-family derivation.
func ValidateInstrumentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInstrumentID
	}
	return nil
}

// SymbolFamilyKey derives the generic series key of a canonically formatted
// identifier: "$ZRA+0042" -> "$ZRA+0000". The second return is false when the
// identifier does not follow the canonical format.
func SymbolFamilyKey(id string) (string, bool) {
	matches := instrumentPattern.FindStringSubmatch(id)
	if matches == nil {
		return "", false
	}
	return matches[1] + "+" + genericSuffix, true
}
