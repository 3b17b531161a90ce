// Package annotate tags free advice text with a constitution pattern by
// keyword search. It is best effort: nothing here feeds back into chart
// computation, and text without a known keyword is reported as Unclassified.
package annotate

import (
	"cmp"
	"slices"
	"strings"
)

// Pattern is a constitution pattern recognised in advice text.
type Pattern string

const (
	Unclassified    Pattern = "unclassified"
	Balanced        Pattern = "balanced"
	QiDeficiency    Pattern = "qi_deficiency"
	YangDeficiency  Pattern = "yang_deficiency"
	YinDeficiency   Pattern = "yin_deficiency"
	BloodDeficiency Pattern = "blood_deficiency"
	PhlegmDamp      Pattern = "phlegm_damp"
	DampHeat        Pattern = "damp_heat"
	BloodStasis     Pattern = "blood_stasis"
	QiStagnation    Pattern = "qi_stagnation"
)

type rule struct {
	pattern  Pattern
	label    string
	keywords []string
}

var rules = []rule{
	{Balanced, "平和質", []string{"平和質", "平和體質"}},
	{QiDeficiency, "氣虛質", []string{"氣虛"}},
	{YangDeficiency, "陽虛質", []string{"陽虛"}},
	{YinDeficiency, "陰虛質", []string{"陰虛"}},
	{BloodDeficiency, "血虛質", []string{"血虛", "血不足"}},
	{PhlegmDamp, "痰濕質", []string{"痰濕", "濕困"}},
	{DampHeat, "濕熱質", []string{"濕熱"}},
	{BloodStasis, "血瘀質", []string{"血瘀", "瘀阻"}},
	{QiStagnation, "氣鬱質", []string{"氣鬱", "氣滯", "肝鬱"}},
}

// Annotation is the outcome of scanning one text.
type Annotation struct {
	Pattern Pattern `json:"pattern"`
	Label   string  `json:"label,omitempty"`
	Keyword string  `json:"keyword,omitempty"`
	// Offset is the byte offset of Keyword in the text, or -1.
	Offset int `json:"offset"`
}

// Classified reports whether a keyword matched.
func (a Annotation) Classified() bool { return a.Pattern != Unclassified }

// None is the annotation for text that was not scanned or matched nothing.
func None() Annotation { return Annotation{Pattern: Unclassified, Offset: -1} }

// Classify returns the pattern whose keyword appears earliest in text. At the
// same offset the longer keyword wins.
func Classify(text string) Annotation {
	best := None()
	for _, r := range rules {
		for _, kw := range r.keywords {
			i := strings.Index(text, kw)
			if i < 0 {
				continue
			}
			if best.Offset < 0 || i < best.Offset || (i == best.Offset && len(kw) > len(best.Keyword)) {
				best = Annotation{Pattern: r.pattern, Label: r.label, Keyword: kw, Offset: i}
			}
		}
	}
	return best
}

// All returns one annotation per distinct pattern found, ordered by first
// appearance. It returns nil when nothing matches.
func All(text string) []Annotation {
	var out []Annotation
	for _, r := range rules {
		first := None()
		for _, kw := range r.keywords {
			i := strings.Index(text, kw)
			if i >= 0 && (first.Offset < 0 || i < first.Offset) {
				first = Annotation{Pattern: r.pattern, Label: r.label, Keyword: kw, Offset: i}
			}
		}
		if first.Classified() {
			out = append(out, first)
		}
	}
	slices.SortStableFunc(out, func(x, y Annotation) int {
		return cmp.Compare(x.Offset, y.Offset)
	})
	return out
}
