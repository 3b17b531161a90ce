package hexagram

import "strings"

// Hexagram holds six lines, index 0 is line 1 (bottom). It is a value type;
// every operation returns a new Hexagram.
type Hexagram [6]Line

// Resolve stacks the named upper trigram over the named lower trigram.
func Resolve(upper, lower string) (Hexagram, error) {
	u, err := ParseTrigram(upper)
	if err != nil {
		return Hexagram{}, err
	}
	l, err := ParseTrigram(lower)
	if err != nil {
		return Hexagram{}, err
	}
	return FromTrigrams(u, l), nil
}

// FromTrigrams concatenates the lower trigram's lines with the upper's.
func FromTrigrams(upper, lower Trigram) Hexagram {
	var h Hexagram
	lo, up := lower.Lines(), upper.Lines()
	copy(h[0:3], lo[:])
	copy(h[3:6], up[:])
	return h
}

// ApplyMovingYao flips every flagged line. Position i of moving refers to
// line i+1. Applying the same flags twice returns the original hexagram.
func ApplyMovingYao(h Hexagram, moving [6]bool) Hexagram {
	out := h
	for i, m := range moving {
		if m {
			out[i] = out[i].Flip()
		}
	}
	return out
}

// Lower returns the trigram formed by lines 1-3.
func (h Hexagram) Lower() Trigram {
	return trigramFromLines([3]Line{h[0], h[1], h[2]})
}

// Upper returns the trigram formed by lines 4-6.
func (h Hexagram) Upper() Trigram {
	return trigramFromLines([3]Line{h[3], h[4], h[5]})
}

// Name looks up the traditional name of the hexagram.
func (h Hexagram) Name() string {
	return names[h.Upper()][h.Lower()]
}

// String draws the figure top line first, the way it is read on paper.
func (h Hexagram) String() string {
	var b strings.Builder
	for i := len(h) - 1; i >= 0; i-- {
		b.WriteString(h[i].String())
		if i > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Name returns the traditional name for the upper/lower pair. Unknown names
// cannot be looked up and degrade to a synthesized label ("<upper><lower>卦").
func Name(upper, lower string) string {
	u, uerr := ParseTrigram(upper)
	l, lerr := ParseTrigram(lower)
	if uerr != nil || lerr != nil {
		return strings.TrimSpace(upper) + strings.TrimSpace(lower) + "卦"
	}
	return names[u][l]
}

// names is indexed [upper][lower] in trigram table order.
var names = [TrigramCount][TrigramCount]string{
	Qian: {"乾為天", "天澤履", "天火同人", "天雷無妄", "天風姤", "天水訟", "天山遯", "天地否"},
	Dui:  {"澤天夬", "兌為澤", "澤火革", "澤雷隨", "澤風大過", "澤水困", "澤山咸", "澤地萃"},
	Li:   {"火天大有", "火澤睽", "離為火", "火雷噬嗑", "火風鼎", "火水未濟", "火山旅", "火地晉"},
	Zhen: {"雷天大壯", "雷澤歸妹", "雷火豐", "震為雷", "雷風恆", "雷水解", "雷山小過", "雷地豫"},
	Xun:  {"風天小畜", "風澤中孚", "風火家人", "風雷益", "巽為風", "風水渙", "風山漸", "風地觀"},
	Kan:  {"水天需", "水澤節", "水火既濟", "水雷屯", "水風井", "坎為水", "水山蹇", "水地比"},
	Gen:  {"山天大畜", "山澤損", "山火賁", "山雷頤", "山風蠱", "山水蒙", "艮為山", "山地剝"},
	Kun:  {"地天泰", "地澤臨", "地火明夷", "地雷復", "地風升", "地水師", "地山謙", "坤為地"},
}
