package pagerank

import (
	"github.com/obaied/corpusrank/corpus"
	"golang.org/x/xerrors"
)

// Transition returns the probability distribution over which page the
// random surfer visits next, given the page they are currently on.
//
// With probability damping the surfer follows one of the current page's
// outgoing links, chosen uniformly; with probability 1-damping they
// teleport to a page chosen uniformly from the whole corpus. A page that
// is both a link target and a teleport destination receives both
// contributions. If the current page has no outgoing links the surfer
// teleports uniformly and the damping factor plays no part.
//
// Transition is a pure function: the returned distribution has an entry
// for every corpus page and its values sum to 1.
func Transition(c corpus.Corpus, page string, damping float64) (Distribution, error) {
	if len(c) == 0 {
		return nil, xerrors.Errorf("transition: corpus is empty: %w", ErrInvalidInput)
	}
	if damping < 0 || damping > 1 {
		return nil, xerrors.Errorf("transition: damping factor %v outside [0, 1]: %w", damping, ErrInvalidInput)
	}
	links, ok := c[page]
	if !ok {
		return nil, xerrors.Errorf("transition: page %q is not part of the corpus: %w", page, ErrInvalidInput)
	}

	numPages := float64(len(c))
	dist := make(Distribution, len(c))

	if len(links) == 0 {
		for p := range c {
			dist[p] = 1.0 / numPages
		}
		return dist, nil
	}

	teleport := (1.0 - damping) / numPages
	follow := damping / float64(len(links))
	for p := range c {
		dist[p] = teleport
	}
	for link := range links {
		dist[link] += follow
	}
	return dist, nil
}
