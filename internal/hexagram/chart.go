package hexagram

// Selection is the caller's input snapshot. Moving[i] flags line i+1.
type Selection struct {
	Upper   string
	Lower   string
	Moving  [6]bool
	DayStem string
}

// LineInfo is one fully resolved yao.
type LineInfo struct {
	Position int         `json:"position"`
	Value    Line        `json:"value"`
	Moving   bool        `json:"moving"`
	Stem     Stem        `json:"stem"`
	Branch   Branch      `json:"branch"`
	Element  Element     `json:"element"`
	Relative SixRelative `json:"relative"`
}

// Figure is a named hexagram with its lines resolved against a gong element.
type Figure struct {
	Hexagram Hexagram    `json:"lines"`
	Name     string      `json:"name"`
	Upper    Trigram     `json:"upper"`
	Lower    Trigram     `json:"lower"`
	Palace   Palace      `json:"palace"`
	Lines    [6]LineInfo `json:"detail"`
}

// Chart is the complete reading for one selection.
type Chart struct {
	Primary     Figure       `json:"primary"`
	Transformed *Figure      `json:"transformed,omitempty"`
	DayStem     Stem         `json:"day_stem"`
	Spirits     [6]SixSpirit `json:"spirits"`
	Moving      [6]bool      `json:"moving"`
}

// HasMoving reports whether any line changes.
func (c Chart) HasMoving() bool {
	for _, m := range c.Moving {
		if m {
			return true
		}
	}
	return false
}

// LinesWith returns the primary positions (1-6) holding relative r, bottom
// first. An empty result means the relative is not on the chart (伏神).
func (c Chart) LinesWith(r SixRelative) []int {
	var out []int
	for _, l := range c.Primary.Lines {
		if l.Relative == r {
			out = append(out, l.Position)
		}
	}
	return out
}

// BuildChart resolves the selection into a chart. The transformed figure is
// only present when at least one line moves, and its lines are classified
// against the primary hexagram's palace element.
func BuildChart(sel Selection) (Chart, error) {
	upper, err := ParseTrigram(sel.Upper)
	if err != nil {
		return Chart{}, err
	}
	lower, err := ParseTrigram(sel.Lower)
	if err != nil {
		return Chart{}, err
	}
	day, err := ParseStem(sel.DayStem)
	if err != nil {
		return Chart{}, err
	}
	return Compose(FromTrigrams(upper, lower), sel.Moving, day), nil
}

// Compose is BuildChart for already-parsed inputs.
func Compose(h Hexagram, moving [6]bool, day Stem) Chart {
	primary := newFigure(h, h.GongElement())
	for i := range primary.Lines {
		primary.Lines[i].Moving = moving[i]
	}
	chart := Chart{
		Primary: primary,
		DayStem: day,
		Spirits: SpiritsFor(day),
		Moving:  moving,
	}
	if chart.HasMoving() {
		changed := newFigure(ApplyMovingYao(h, moving), primary.Palace.Element)
		chart.Transformed = &changed
	}
	return chart
}

func newFigure(h Hexagram, gong Element) Figure {
	upper, lower := h.Upper(), h.Lower()
	f := Figure{
		Hexagram: h,
		Name:     h.Name(),
		Upper:    upper,
		Lower:    lower,
		Palace:   PalaceOf(h),
	}
	inner, outer := trigrams[lower], trigrams[upper]
	for i := range f.Lines {
		var stem Stem
		var branch Branch
		if i < 3 {
			stem, branch = inner.innerStem, inner.innerBranches[i]
		} else {
			stem, branch = outer.outerStem, outer.outerBranches[i-3]
		}
		f.Lines[i] = LineInfo{
			Position: i + 1,
			Value:    h[i],
			Stem:     stem,
			Branch:   branch,
			Element:  branch.Element(),
			Relative: Relate(gong, branch.Element()),
		}
	}
	return f
}
