package vo

import (
	"errors"
	"unicode/utf8"
)

// LookupLength is the number of characters a postal code field must hold
// before a lookup is fired.
const LookupLength = 8

type Cep struct {
	value string
}

var ErrInvalidCep = errors.New("invalid cep")

// NewCep wraps a value that is ready for lookup. Only the length is checked;
// the content goes to ViaCEP as typed.
func NewCep(value string) (*Cep, error) {
	if !ReadyForLookup(value) {
		return nil, ErrInvalidCep
	}
	return &Cep{value: value}, nil
}

func (c *Cep) Value() string {
	return c.value
}

// Digits reports whether the value holds decimal digits only.
func (c *Cep) Digits() bool {
	for _, r := range c.value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// AcceptsKey reports whether a keystroke may be inserted into the postal
// code field. Digits and the period are accepted.
func AcceptsKey(key rune) bool {
	return (key >= '0' && key <= '9') || key == '.'
}

func ReadyForLookup(raw string) bool {
	return utf8.RuneCountInString(raw) == LookupLength
}
