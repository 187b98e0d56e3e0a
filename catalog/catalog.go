// Package catalog provides the languages a user can select as translation
// target.
package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var defaultLanguages = []string{
	"arabic",
	"chinese",
	"czech",
	"danish",
	"dutch",
	"finnish",
	"french",
	"german",
	"greek",
	"hebrew",
	"hindi",
	"hungarian",
	"indonesian",
	"italian",
	"japanese",
	"korean",
	"norwegian",
	"polish",
	"portuguese",
	"romanian",
	"russian",
	"spanish",
	"swedish",
	"thai",
	"turkish",
	"ukrainian",
	"vietnamese",
}

// Catalog is an alphabetically ordered, read-only set of language
// identifiers.
type Catalog struct {
	ids   []string
	index map[string]struct{}
}

// Entry is a selectable language.
type Entry struct {
	// ID is the identifier submitted with the form.
	ID string `json:"id"`

	// Label is the human-readable name.
	Label string `json:"label"`
}

// Default returns the catalog of bundled languages, extended by extra.
func Default(extra ...string) *Catalog {
	return New(append(append([]string(nil), defaultLanguages...), extra...)...)
}

// New returns a catalog of the given identifiers. Empty and duplicate
// identifiers are dropped.
func New(ids ...string) *Catalog {
	c := &Catalog{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := c.index[id]; ok {
			continue
		}
		c.index[id] = struct{}{}
		c.ids = append(c.ids, id)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(c.ids)
	return c
}

// Languages returns the identifiers in alphabetical order.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.ids...)
}

// Entries returns the languages in alphabetical order, labeled for display.
func (c *Catalog) Entries() []Entry {
	title := cases.Title(language.English)
	out := make([]Entry, len(c.ids))
	for i, id := range c.ids {
		out[i] = Entry{ID: id, Label: title.String(id)}
	}
	return out
}

// Contains reports whether id is part of the catalog.
func (c *Catalog) Contains(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Len returns the number of languages.
func (c *Catalog) Len() int {
	return len(c.ids)
}
