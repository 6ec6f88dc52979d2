package source

import (
	"strings"
	"sync"
)

// ReferenceSeparator joins the links of a fetched page into Source.Reference.
const ReferenceSeparator = ", "

// Source is a citation collected when a tool reads external content.
type Source struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Content   string `json:"content"`
}

// New builds a Source from a page title, its links and its content.
func New(name string, links []string, content string) Source {
	return Source{
		Name:      name,
		Reference: JoinReference(links),
		Content:   content,
	}
}

// JoinReference joins links with ReferenceSeparator. Links are not trimmed.
func JoinReference(links []string) string {
	return strings.Join(links, ReferenceSeparator)
}

// Provider is implemented by tools that accumulate sources.
type Provider interface {
	Sources() []Source
}

// Collection is an append-only list of sources, safe for concurrent use.
type Collection struct {
	mu      sync.RWMutex
	sources []Source
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Add appends a source.
func (c *Collection) Add(s Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources = append(c.sources, s)
}

// All returns a snapshot of the collected sources in insertion order.
func (c *Collection) All() []Source {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// Sources implements Provider.
func (c *Collection) Sources() []Source {
	return c.All()
}

// Len returns the number of collected sources.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sources)
}

// Merge returns the sources of every provider, in provider order.
func Merge(providers ...Provider) []Source {
	var out []Source
	for _, p := range providers {
		out = append(out, p.Sources()...)
	}
	return out
}
