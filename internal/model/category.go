// Package model defines the data types shared across kharcha packages.
package model

import (
	"fmt"
	"strings"
)

// Category is one of the fixed expense classifications.
type Category string

// Categories, in display order.
const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Bills         Category = "Bills"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Education     Category = "Education"
	Other         Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{Food, Transport, Bills, Shopping, Entertainment, Health, Education, Other}

var categoryEmoji = map[Category]string{
	Food:          "🍔",
	Transport:     "🚗",
	Bills:         "⚡",
	Shopping:      "🛒",
	Entertainment: "🎬",
	Health:        "💊",
	Education:     "📚",
	Other:         "📦",
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryEmoji[c]
	return ok
}

// Emoji returns the display glyph for c, or an empty string if unknown.
func (c Category) Emoji() string {
	return categoryEmoji[c]
}

// Label returns the emoji-prefixed name.
func (c Category) Label() string {
	if e := c.Emoji(); e != "" {
		return e + " " + string(c)
	}
	return string(c)
}

// Index returns the display position of c, or -1.
func (c Category) Index() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}
