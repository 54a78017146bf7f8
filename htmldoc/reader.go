package htmldoc

import (
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// Document is a parsed HTML report.
type Document struct {
	root  *html.Node
	query *goquery.Document
	title string
	index map[*html.Node]span
}

// span is a node's preorder position and the position of its last
// descendant.
type span struct {
	start, end int
}

// Open opens an HTML file for reading.
func Open(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, eris.Wrapf(err, "opening file %s", filename)
	}
	defer f.Close()

	return OpenReader(f)
}

// OpenReader parses HTML from an io.Reader.
func OpenReader(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "parsing HTML")
	}
	return newDocument(root), nil
}

func newDocument(root *html.Node) *Document {
	d := &Document{
		root:  root,
		query: goquery.NewDocumentFromNode(root),
		index: make(map[*html.Node]span),
	}
	d.indexNodes()
	d.title = d.query.Find("head > title").First().Text()
	return d
}

// Title returns the document title from the head element, if any.
func (d *Document) Title() string {
	return d.title
}

// Root returns the document's root node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Tables returns the number of table elements in the document.
func (d *Document) Tables() int {
	return d.query.Find("table").Length()
}
