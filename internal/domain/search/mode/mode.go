package mode

import (
	"fmt"
	"strings"
)

// Mode is the query interpretation strategy.
type Mode string

// Search mode constants.
const (
	// NaturalLanguage matches any processed term and ranks by relevance.
	NaturalLanguage Mode = "NATURAL LANGUAGE"
	// Boolean honours +required, -excluded, "phrase" and prefix* operators.
	Boolean Mode = "BOOLEAN"
)

// Default is used when neither the query nor the configuration names a mode.
const Default = NaturalLanguage

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == NaturalLanguage || m == Boolean
}

// Parse accepts the canonical names plus the snake_case spellings used in YAML and query strings.
func Parse(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "NATURAL LANGUAGE", "NATURAL_LANGUAGE", "NATURAL":
		return NaturalLanguage, nil
	case "BOOLEAN":
		return Boolean, nil
	default:
		return "", fmt.Errorf("unsupported search mode %q", s)
	}
}
