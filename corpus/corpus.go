// Package corpus models a closed, immutable graph of hyperlinked
// documents: every page maps to the set of corpus pages it links to.
package corpus

import "sort"

// LinkSet holds the outbound links of a page. Iteration order is
// unspecified; callers that need a stable order must sort.
type LinkSet map[string]struct{}

// NewLinkSet returns a LinkSet containing the provided pages.
func NewLinkSet(pages ...string) LinkSet {
	set := make(LinkSet, len(pages))
	for _, page := range pages {
		set.Add(page)
	}
	return set
}

// Add inserts page into the set.
func (s LinkSet) Add(page string) { s[page] = struct{}{} }

// Has reports whether page is a member of the set.
func (s LinkSet) Has(page string) bool {
	_, ok := s[page]
	return ok
}

// Corpus maps each page to the set of pages it links to. A well-formed
// corpus is closed (every link target is also a corpus key) and contains
// no self-references; FromDir enforces both. The estimators treat a
// corpus as read-only for the lifetime of a run.
type Corpus map[string]LinkSet

// Pages returns the corpus page names in lexicographic order. The stable
// order is what makes the sampling estimator reproducible for a fixed
// random source.
func (c Corpus) Pages() []string {
	pages := make([]string, 0, len(c))
	for page := range c {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}
