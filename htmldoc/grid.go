package htmldoc

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jensjap/SRDR-ImportProject2/model"
	"github.com/jensjap/SRDR-ImportProject2/text"
)

// ToGrid converts a located table into rows of cleaned cell text.
//
// Cells are indexed by their position among the row's td/th children.
// Positions still covered by a rowspan from an earlier row are filled with
// "" so a continuation row lines up with the row that opened the span.
// Colspan does not shift positions. A nil region yields an empty grid.
func ToGrid(r *Region) model.Grid {
	if r == nil || r.sel == nil {
		return model.Grid{}
	}

	var grid model.Grid
	covered := make(map[int]int) // column -> rows still covered

	r.sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		row := make(model.Row, 0)
		next := make(map[int]int)
		col := 0

		pad := func() {
			for covered[col] > 0 {
				row = append(row, "")
				if covered[col] > 1 {
					next[col] = covered[col] - 1
				}
				col++
			}
		}

		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			pad()
			row = append(row, text.Clean(cell.Text()))
			if span := rowSpan(cell); span > 1 {
				next[col] = span - 1
			}
			col++
		})

		// Spans past the last cell keep counting down.
		for c, n := range covered {
			if c >= col && n > 1 {
				next[c] = n - 1
			}
		}

		covered = next
		grid.Rows = append(grid.Rows, row)
	})

	return grid
}

func rowSpan(cell *goquery.Selection) int {
	span := 1
	if v, ok := cell.Attr("rowspan"); ok {
		fmt.Sscanf(v, "%d", &span)
	}
	return span
}
