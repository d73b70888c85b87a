package models

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
)

// FieldErrors is a local validation failure keyed by field name. It never
// reaches the network.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return "validation failed: " + e.Details()
}

// Details lists the failures as "field: message", sorted by field.
func (e FieldErrors) Details() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return strings.Join(parts, "; ")
}

// OrNil returns nil for an empty set so callers can `return errs.OrNil()`.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidEmail accepts a bare RFC 5322 address. Single-label domains such as
// localhost are allowed.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
