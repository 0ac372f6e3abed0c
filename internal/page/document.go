// Package page renders the host page that carries the counter element.
package page

import (
	"context"
	"sort"

	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
	"github.com/tckz/visitor-counter/internal/counter"
)

const CounterSelector = ".counter"

// Document holds element texts keyed by selector. Items never expire; the
// store lives as long as the page render that owns it.
type Document struct {
	elements *cache.Cache
}

func NewDocument() *Document {
	return &Document{elements: cache.New(cache.NoExpiration, 0)}
}

// Query resolves the element for selector, creating it empty on first use.
func (d *Document) Query(selector string) *Element {
	// Add fails when the element already exists, which is fine.
	_ = d.elements.Add(selector, "", cache.NoExpiration)
	return &Element{doc: d, selector: selector}
}

func (d *Document) Selectors() []string {
	keys := lo.Keys(d.elements.Items())
	sort.Strings(keys)
	return keys
}

var _ counter.Display = (*Element)(nil)

type Element struct {
	doc      *Document
	selector string
}

func (e *Element) Selector() string {
	return e.selector
}

func (e *Element) SetText(ctx context.Context, text string) error {
	e.doc.elements.Set(e.selector, text, cache.NoExpiration)
	return nil
}

func (e *Element) Text() string {
	v, ok := e.doc.elements.Get(e.selector)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
