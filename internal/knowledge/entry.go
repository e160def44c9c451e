// Package knowledge implements the in-memory knowledge base: an entry table
// with category and keyword inverted indexes, and a weighted word-level
// search over it. The store is volatile — it is rebuilt from the seed set at
// process start and mutated only through its own methods.
package knowledge

import (
	"errors"
	"fmt"
	"time"
)

// ErrEntryNotFound indicates the requested entry does not exist.
var ErrEntryNotFound = errors.New("knowledge: entry not found")

// Category classifies an entry. The set is closed so per-category dispatch
// tables elsewhere stay exhaustive.
type Category string

// Supported categories.
const (
	CategoryFAQ             Category = "faq"
	CategoryTroubleshooting Category = "troubleshooting"
	CategoryProduct         Category = "product"
	CategoryOnboarding      Category = "onboarding"
)

// Valid reports whether the category is one of the supported values.
func (c Category) Valid() bool {
	switch c {
	case CategoryFAQ, CategoryTroubleshooting, CategoryProduct, CategoryOnboarding:
		return true
	}
	return false
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	if c := Category(s); c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("knowledge: invalid category %q", s)
}

// Entry is one knowledge-base item. ID is assigned by the store and
// immutable afterwards; LastUpdated strictly increases on every mutation.
type Entry struct {
	ID          string    `json:"id"`
	Category    Category  `json:"category"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Keywords    []string  `json:"keywords,omitempty"`
	LastUpdated time.Time `json:"last_updated"`
}

// NewEntry is the caller-supplied shape for Add, BulkImport, and Export:
// an entry before the store assigns identity and a timestamp.
type NewEntry struct {
	Category Category `json:"category" yaml:"category"`
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Validate checks the fields required for an entry to be stored.
// The keyword list may be empty.
func (n NewEntry) Validate() error {
	if !n.Category.Valid() {
		return fmt.Errorf("knowledge: invalid category %q", n.Category)
	}
	if n.Question == "" {
		return errors.New("knowledge: question must not be empty")
	}
	if n.Answer == "" {
		return errors.New("knowledge: answer must not be empty")
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil
// Keywords pointer replaces the whole keyword list (an empty slice clears it).
type Patch struct {
	Category *Category
	Question *string
	Answer   *string
	Keywords *[]string
}
