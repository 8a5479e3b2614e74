package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/xerrors"
)

// FromDir parses every HTML document directly under dir and assembles the
// link graph between them. Anchor targets that point outside the corpus
// are dropped, as are self-references, so the returned corpus is always
// closed. Non-HTML files are ignored.
func FromDir(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("build corpus: %w", err)
	}

	raw := make(map[string]LinkSet)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, xerrors.Errorf("build corpus: %w", err)
		}
		links, err := extractLinks(f)
		_ = f.Close()
		if err != nil {
			return nil, xerrors.Errorf("build corpus: extracting links from %q: %w", entry.Name(), err)
		}

		delete(links, entry.Name())
		raw[entry.Name()] = links
	}

	if len(raw) == 0 {
		return nil, xerrors.Errorf("build corpus: no HTML documents found in %q", dir)
	}

	// Only keep links that resolve to other pages in the corpus.
	corpus := make(Corpus, len(raw))
	for page, links := range raw {
		internal := make(LinkSet, len(links))
		for link := range links {
			if _, ok := raw[link]; ok {
				internal.Add(link)
			}
		}
		corpus[page] = internal
	}
	return corpus, nil
}

// extractLinks returns the href target of every anchor tag in the
// document.
func extractLinks(r io.Reader) (LinkSet, error) {
	links := make(LinkSet)
	tokenizer := html.NewTokenizer(r)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return nil, err
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "href" && len(val) != 0 {
					links.Add(string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}
