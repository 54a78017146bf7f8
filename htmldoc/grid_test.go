package htmldoc

import (
	"strings"
	"testing"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

func firstTableGrid(t *testing.T, body string) model.Grid {
	t.Helper()
	doc, err := OpenReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}
	sel := doc.query.Find("table").First()
	if sel.Length() == 0 {
		t.Fatal("no table in fixture")
	}
	return ToGrid(&Region{sel: sel})
}

func TestToGrid_Simple(t *testing.T) {
	grid := firstTableGrid(t, `<table>
<tr><td> Outcome </td><td>Unit</td></tr>
<tr><td>Bone
	density</td><td>g/cm2</td></tr>
</table>`)

	if grid.RowCount() != 2 {
		t.Fatalf("RowCount() = %d, want 2", grid.RowCount())
	}
	if got := grid.Cell(0, 0); got != "Outcome" {
		t.Errorf("Cell(0,0) = %q, want %q", got, "Outcome")
	}
	if got := grid.Cell(1, 0); got != "Bone density" {
		t.Errorf("Cell(1,0) = %q, want %q", got, "Bone density")
	}
	if got := grid.Cell(5, 5); got != "" {
		t.Errorf("Cell(5,5) = %q, want empty", got)
	}
}

func TestToGrid_RowspanPadding(t *testing.T) {
	grid := firstTableGrid(t, `<table>
<tr><td>h0</td><td>h1</td><td>Outcome</td><td>Arm</td><td>M1</td><td>P</td></tr>
<tr><td rowspan="2">1</td><td rowspan="2">S</td><td rowspan="2">BMD</td><td>Placebo</td><td>1.2</td><td rowspan="2">0.04</td></tr>
<tr><td>Vitamin D</td><td>1.5</td></tr>
<tr><td>2</td><td>T</td><td>BP</td><td>Placebo</td><td>120</td><td>0.5</td></tr>
</table>`)

	want := [][]string{
		{"h0", "h1", "Outcome", "Arm", "M1", "P"},
		{"1", "S", "BMD", "Placebo", "1.2", "0.04"},
		{"", "", "", "Vitamin D", "1.5"},
		{"2", "T", "BP", "Placebo", "120", "0.5"},
	}

	if grid.RowCount() != len(want) {
		t.Fatalf("RowCount() = %d, want %d", grid.RowCount(), len(want))
	}
	for r, row := range want {
		if grid.Width(r) != len(row) {
			t.Errorf("Width(%d) = %d, want %d: %q", r, grid.Width(r), len(row), grid.Row(r))
			continue
		}
		for c, cell := range row {
			if got := grid.Cell(r, c); got != cell {
				t.Errorf("Cell(%d,%d) = %q, want %q", r, c, got, cell)
			}
		}
	}
}

func TestToGrid_Nil(t *testing.T) {
	if grid := ToGrid(nil); !grid.Empty() {
		t.Errorf("ToGrid(nil) has %d rows, want 0", grid.RowCount())
	}
}
