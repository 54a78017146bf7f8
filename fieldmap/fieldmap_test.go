package fieldmap

import (
	"testing"

	"github.com/jensjap/SRDR-ImportProject2/model"
)

func TestCellIn(t *testing.T) {
	g := model.NewGrid(
		[]string{"h"},
		[]string{"a", "b"},
		[]string{"x", "co"},
		[]string{"y", "comp"},
	)

	tests := []struct {
		cell Cell
		want string
	}{
		{Cell{1, 1}, "b"},
		{Cell{1, 9}, ""},
		{CoInterventions, "co"},
		{Compliance, "comp"},
		{Cell{-9, 0}, ""},
	}
	for _, tt := range tests {
		if got := tt.cell.In(g); got != tt.want {
			t.Errorf("%+v.In() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestNeeded(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		want   int
	}{
		{"design", DesignDetails, 7},
		{"interventional", QualityInterventional, 11},
		{"cohort", QualityCohort, 18},
		{"none", nil, 0},
	}
	for _, tt := range tests {
		if got := Needed(tt.fields); got != tt.want {
			t.Errorf("Needed(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestQualityCohortCoversEveryField(t *testing.T) {
	seen := make(map[int]bool)
	for _, f := range QualityCohort {
		if seen[f.Index] {
			t.Errorf("field %d mapped twice", f.Index)
		}
		seen[f.Index] = true
	}
	for i := 0; i < Needed(QualityCohort); i++ {
		if !seen[i] {
			t.Errorf("field %d not mapped", i)
		}
	}
}

func TestConfounderValue(t *testing.T) {
	if got := ConfounderValue(0, 0); got != (Cell{1, 3}) {
		t.Errorf("ConfounderValue(0,0) = %+v, want {1 3}", got)
	}
	if got := ConfounderValue(2, 1); got != (Cell{3, 2}) {
		t.Errorf("ConfounderValue(2,1) = %+v, want {3 2}", got)
	}
}
