package htmldoc

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// indexNodes numbers every node in document order so that structural
// relations (before, after, inside) reduce to integer comparisons.
func (d *Document) indexNodes() {
	pos := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		start := pos
		pos++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		d.index[n] = span{start: start, end: pos - 1}
	}
	walk(d.root)
}

// Contains reports whether n is anc or one of its descendants.
func (d *Document) Contains(anc, n *html.Node) bool {
	a, ok := d.index[anc]
	if !ok {
		return false
	}
	b, ok := d.index[n]
	if !ok {
		return false
	}
	return a.start <= b.start && b.end <= a.end
}

// Precedes reports whether n lies before marker in document order and is
// not one of its ancestors.
func (d *Document) Precedes(n, marker *html.Node) bool {
	return d.index[n].start < d.index[marker].start && !d.Contains(n, marker)
}

// Follows reports whether n starts after marker and all of its descendants.
func (d *Document) Follows(n, marker *html.Node) bool {
	return d.index[n].start > d.index[marker].end
}

// ElementsMatching returns, in document order, every element whose own
// text matches re.
func (d *Document) ElementsMatching(re *regexp.Regexp) []*html.Node {
	return d.query.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return re.MatchString(ownText(s.Get(0)))
	}).Nodes
}

// ElementsContaining returns every element whose own text contains the
// heading fragment. Whitespace runs in the fragment match any whitespace.
func (d *Document) ElementsContaining(fragment string) []*html.Node {
	return d.ElementsMatching(headingPattern(fragment))
}

// TableAfter returns the first table that starts after n and its
// descendants, or nil.
func (d *Document) TableAfter(n *html.Node) *Region {
	end := d.index[n].end
	tables := d.query.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return d.index[s.Get(0)].start > end
	})
	if tables.Length() == 0 {
		return nil
	}
	return &Region{sel: tables.First()}
}

// headingPattern compiles a literal heading into a pattern that tolerates
// the line breaks and indentation the exporter inserts between words.
func headingPattern(fragment string) *regexp.Regexp {
	words := strings.Fields(fragment)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(strings.Join(words, `\s+`))
}

// ownText returns the concatenated text nodes directly under n.
func ownText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
