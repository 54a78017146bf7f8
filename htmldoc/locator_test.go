package htmldoc

import (
	"strings"
	"testing"
)

const reportHTML = `<html><body>
<p><span>ELIGIBILITY
CRITERIA AND OTHER CHARACTERISTICS</span></p>
<table>
<tr><td>UI</td><td>Study</td><td>Design</td></tr>
<tr><td>12345</td><td>Smith 2009</td><td>RCT</td></tr>
</table>
<p><span>POPULATION
(BASELINE)</span></p>
<table><tr><td>UI</td></tr><tr><td>12345</td></tr></table>
<p><b>LIST
OF ALL OUTCOMES</b></p>
<p>an unrelated paragraph</p>
<table><tr><td>UI</td><td>Study</td><td>P/S</td><td>Outcome</td></tr></table>
<table>
<tr><td><p><span>Comments</span></p></td><td>general</td></tr>
</table>
<table>
<tr><td><span>Comments</span></td><td>results</td></tr>
</table>
<p><span>----Confounders:</span></p>
<table><tr><td>C</td></tr></table>
</body></html>`

func TestLocate(t *testing.T) {
	doc, err := OpenReader(strings.NewReader(reportHTML))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	regions := Locate(doc)

	tests := []struct {
		name  RegionName
		found bool
		cell  string // grid[0][1] of the located table
	}{
		{Eligibility, true, "Study"},
		{Population, true, ""},
		{OutcomesList, true, "Study"},
		{Comments, true, "general"},
		{ResultsComments, true, "results"},
		{Confounders, true, ""},
		{Background, false, ""},
		{Intervention, false, ""},
		{MeanData, false, ""},
		{OtherResults, false, ""},
		{QualityInterventional, false, ""},
		{QualityCohort, false, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			if got := regions.Found(tt.name); got != tt.found {
				t.Fatalf("Found(%s) = %v, want %v", tt.name, got, tt.found)
			}
			grid := regions.Grid(tt.name)
			if !tt.found {
				if !grid.Empty() {
					t.Errorf("Grid(%s) has %d rows, want empty", tt.name, grid.RowCount())
				}
				return
			}
			if got := grid.Cell(0, 1); got != tt.cell {
				t.Errorf("Grid(%s)[0][1] = %q, want %q", tt.name, got, tt.cell)
			}
		})
	}

	if got := regions.Grid(Eligibility).Cell(1, 0); got != "12345" {
		t.Errorf("eligibility identifier = %q, want %q", got, "12345")
	}
}

func TestLocate_EligibilityFallback(t *testing.T) {
	doc, err := OpenReader(strings.NewReader(`<html><body>
<div><b>ELIGIBILITY</b><table><tr><td>UI</td></tr><tr><td>999</td></tr></table></div>
</body></html>`))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	regions := Locate(doc)
	if got := regions.Grid(Eligibility).Cell(1, 0); got != "999" {
		t.Errorf("eligibility identifier = %q, want %q", got, "999")
	}
}

func TestLocate_Empty(t *testing.T) {
	doc, err := OpenReader(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	if err != nil {
		t.Fatalf("OpenReader() failed: %v", err)
	}

	if regions := Locate(doc); len(regions) != 0 {
		t.Errorf("Locate() found %d regions, want 0", len(regions))
	}
}

func TestRegionNames(t *testing.T) {
	names := RegionNames()
	if len(names) != 12 {
		t.Fatalf("RegionNames() = %d names, want 12", len(names))
	}
	if names[0] != Eligibility {
		t.Errorf("RegionNames()[0] = %s, want %s", names[0], Eligibility)
	}
}
