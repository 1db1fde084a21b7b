package diff

import (
	"fmt"
	"io"
	"strings"
)

// Report is the outcome of a comparison.
type Report struct {
	LabelA string `json:"label_a"`
	LabelB string `json:"label_b"`

	CountA int `json:"count_a"`
	CountB int `json:"count_b"`

	// CountMismatch is set when the sides hold different numbers of clips.
	CountMismatch bool `json:"count_mismatch"`

	// OnlyInA and OnlyInB list names found on one side only, in document
	// order, each name once.
	OnlyInA []string `json:"only_in_a"`
	OnlyInB []string `json:"only_in_b"`

	// Changed lists uniquely matched clips whose renderings differ, in
	// A's document order.
	Changed []Changed `json:"changed"`

	// Ambiguous lists names present on both sides but duplicated on at
	// least one.
	Ambiguous []Ambiguous `json:"ambiguous"`
}

// Changed is a clip whose content differs between the sides.
type Changed struct {
	Name string `json:"name"`
	Diff string `json:"diff"`
}

// Ambiguous is a name that cannot be matched one to one.
type Ambiguous struct {
	Name   string `json:"name"`
	CountA int    `json:"count_a"`
	CountB int    `json:"count_b"`
}

// HasDifferences reports whether the sides differ. Ambiguous names are not
// differences on their own.
func (r *Report) HasDifferences() bool {
	return r.CountMismatch || len(r.OnlyInA) > 0 || len(r.OnlyInB) > 0 || len(r.Changed) > 0
}

// WriteText renders the report for a terminal.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	if r.CountMismatch {
		fmt.Fprintf(&b, "clip count differs: %s has %d, %s has %d\n", r.LabelA, r.CountA, r.LabelB, r.CountB)
	}
	for _, name := range r.OnlyInA {
		fmt.Fprintf(&b, "only in %s: %s\n", r.LabelA, name)
	}
	for _, name := range r.OnlyInB {
		fmt.Fprintf(&b, "only in %s: %s\n", r.LabelB, name)
	}
	for _, a := range r.Ambiguous {
		fmt.Fprintf(&b, "ambiguous: %s (%d in %s, %d in %s)\n", a.Name, a.CountA, r.LabelA, a.CountB, r.LabelB)
	}
	for _, c := range r.Changed {
		fmt.Fprintf(&b, "changed: %s\n%s", c.Name, c.Diff)
	}
	if !r.HasDifferences() {
		fmt.Fprintf(&b, "no differences (%d clips)\n", r.CountA)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
