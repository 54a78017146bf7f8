package tables

import (
	"regexp"

	"golang.org/x/net/html"

	"github.com/jensjap/SRDR-ImportProject2/htmldoc"
	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// Bucket is one of the eight structural classes of results table.
type Bucket int

const (
	MainMultiContinuous Bucket = iota
	MainTwoContinuous
	MainMultiDichotomous
	MainTwoDichotomous
	SubMultiContinuous
	SubTwoContinuous
	SubMultiDichotomous
	SubTwoDichotomous

	bucketCount
)

// AllBuckets returns every bucket in walking order.
func AllBuckets() []Bucket {
	all := make([]Bucket, bucketCount)
	for i := range all {
		all[i] = Bucket(i)
	}
	return all
}

// String returns the string representation of the bucket.
func (b Bucket) String() string {
	switch b {
	case MainMultiContinuous:
		return "main multi-arm continuous"
	case MainTwoContinuous:
		return "main two-arm continuous"
	case MainMultiDichotomous:
		return "main multi-arm dichotomous"
	case MainTwoDichotomous:
		return "main two-arm dichotomous"
	case SubMultiContinuous:
		return "subgroup multi-arm continuous"
	case SubTwoContinuous:
		return "subgroup two-arm continuous"
	case SubMultiDichotomous:
		return "subgroup multi-arm dichotomous"
	case SubTwoDichotomous:
		return "subgroup two-arm dichotomous"
	default:
		return "unknown"
	}
}

// Subgroup reports whether the bucket holds subgroup-analysis tables.
func (b Bucket) Subgroup() bool {
	return b >= SubMultiContinuous && b < bucketCount
}

// Continuous reports whether the bucket holds continuous-outcome tables.
func (b Bucket) Continuous() bool {
	return b%4 < 2
}

// bucketFor composes a bucket from its three dimensions.
func bucketFor(subgroup, continuous, multiArm bool) Bucket {
	b := Bucket(0)
	if subgroup {
		b += 4
	}
	if !continuous {
		b += 2
	}
	if !multiArm {
		b++
	}
	return b
}

// Buckets holds the grids of each bucket in document order.
type Buckets [bucketCount][]model.Grid

// Len returns the total number of classified grids.
func (bs *Buckets) Len() int {
	n := 0
	for _, grids := range bs {
		n += len(grids)
	}
	return n
}

const subgroupMarker = "-----Subgroup\nAnalyses"

var (
	continuousHeading  = regexp.MustCompile(`CONTINU?OUS`)
	dichotomousHeading = regexp.MustCompile(`DICHOTOMOUS`)
)

// Classify sorts the document's results tables into buckets.
//
// Headings after the first subgroup-analyses marker belong to the subgroup
// half; with no marker every table is a main table. Each heading claims the
// first table following it, and a table is only bucketed once.
func Classify(d *htmldoc.Document) Buckets {
	var marker *html.Node
	if m := d.ElementsContaining(subgroupMarker); len(m) > 0 {
		marker = m[0]
	}

	var bs Buckets
	seen := make(map[*html.Node]bool)
	kinds := []struct {
		heading    *regexp.Regexp
		continuous bool
	}{
		{continuousHeading, true},
		{dichotomousHeading, false},
	}

	for _, kind := range kinds {
		for _, h := range d.ElementsMatching(kind.heading) {
			region := d.TableAfter(h)
			if region == nil || seen[region.Node()] {
				continue
			}
			seen[region.Node()] = true

			g := htmldoc.ToGrid(region)
			subgroup := marker != nil && d.Follows(h, marker)
			b := bucketFor(subgroup, kind.continuous, multiArm(g, kind.continuous))
			bs[b] = append(bs[b], g)
		}
	}
	return bs
}

// multiArm reads the header cue that separates multi-arm layouts from
// two-arm ones. A missing cell reads as two-arm.
func multiArm(g model.Grid, continuous bool) bool {
	if continuous {
		return text.ContainsFold(g.Cell(0, 5), "crude")
	}
	cue := g.Cell(0, 3)
	return text.ContainsFold(cue, "tertiles") || text.ContainsFold(cue, "tirtiles")
}
