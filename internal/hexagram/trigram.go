package hexagram

import "strings"

// Line is a single yao: Yin (0) or Yang (1).
type Line int

const (
	Yin  Line = 0
	Yang Line = 1
)

// Flip returns the opposite polarity.
func (l Line) Flip() Line { return 1 - l }

func (l Line) String() string {
	if l == Yang {
		return "⚊"
	}
	return "⚋"
}

// Trigram indexes the eight-entry table below.
type Trigram int

const (
	Qian Trigram = iota // 乾
	Dui                 // 兌
	Li                  // 離
	Zhen                // 震
	Xun                 // 巽
	Kan                 // 坎
	Gen                 // 艮
	Kun                 // 坤
)

type trigramInfo struct {
	name    string
	image   string
	aliases []string
	lines   [3]Line // bottom to top
	palace  Element
	// na jia: inner applies to lines 1-3, outer to lines 4-6
	innerStem     Stem
	outerStem     Stem
	innerBranches [3]Branch
	outerBranches [3]Branch
}

var trigrams = [...]trigramInfo{
	Qian: {
		name: "乾", image: "天", aliases: []string{"qian", "heaven"},
		lines: [3]Line{Yang, Yang, Yang}, palace: Metal,
		innerStem: 0, outerStem: 8,
		innerBranches: [3]Branch{0, 2, 4}, outerBranches: [3]Branch{6, 8, 10},
	},
	Dui: {
		name: "兌", image: "澤", aliases: []string{"兑", "dui", "lake"},
		lines: [3]Line{Yang, Yang, Yin}, palace: Metal,
		innerStem: 3, outerStem: 3,
		innerBranches: [3]Branch{5, 3, 1}, outerBranches: [3]Branch{11, 9, 7},
	},
	Li: {
		name: "離", image: "火", aliases: []string{"离", "li", "fire"},
		lines: [3]Line{Yang, Yin, Yang}, palace: Fire,
		innerStem: 5, outerStem: 5,
		innerBranches: [3]Branch{3, 1, 11}, outerBranches: [3]Branch{9, 7, 5},
	},
	Zhen: {
		name: "震", image: "雷", aliases: []string{"zhen", "thunder"},
		lines: [3]Line{Yang, Yin, Yin}, palace: Wood,
		innerStem: 6, outerStem: 6,
		innerBranches: [3]Branch{0, 2, 4}, outerBranches: [3]Branch{6, 8, 10},
	},
	Xun: {
		name: "巽", image: "風", aliases: []string{"风", "xun", "wind"},
		lines: [3]Line{Yin, Yang, Yang}, palace: Wood,
		innerStem: 7, outerStem: 7,
		innerBranches: [3]Branch{1, 11, 9}, outerBranches: [3]Branch{7, 5, 3},
	},
	Kan: {
		name: "坎", image: "水", aliases: []string{"kan", "water"},
		lines: [3]Line{Yin, Yang, Yin}, palace: Water,
		innerStem: 4, outerStem: 4,
		innerBranches: [3]Branch{2, 4, 6}, outerBranches: [3]Branch{8, 10, 0},
	},
	Gen: {
		name: "艮", image: "山", aliases: []string{"gen", "mountain"},
		lines: [3]Line{Yin, Yin, Yang}, palace: Earth,
		innerStem: 2, outerStem: 2,
		innerBranches: [3]Branch{4, 6, 8}, outerBranches: [3]Branch{10, 0, 2},
	},
	Kun: {
		name: "坤", image: "地", aliases: []string{"kun", "earth"},
		lines: [3]Line{Yin, Yin, Yin}, palace: Earth,
		innerStem: 1, outerStem: 9,
		innerBranches: [3]Branch{7, 5, 3}, outerBranches: [3]Branch{1, 11, 9},
	},
}

// TrigramCount is the size of the trigram table.
const TrigramCount = len(trigrams)

// Trigrams lists the eight trigrams in table order (乾兌離震巽坎艮坤).
func Trigrams() []Trigram {
	out := make([]Trigram, TrigramCount)
	for i := range out {
		out[i] = Trigram(i)
	}
	return out
}

// ParseTrigram resolves a trigram by character (traditional or simplified),
// image character (天, 澤, ...), pinyin or English image.
func ParseTrigram(name string) (Trigram, error) {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for i, info := range trigrams {
		if info.name == trimmed || info.image == trimmed {
			return Trigram(i), nil
		}
		for _, alias := range info.aliases {
			if alias == lower {
				return Trigram(i), nil
			}
		}
	}
	return 0, invalid(KindTrigram, name)
}

func trigramFromLines(lines [3]Line) Trigram {
	for i, info := range trigrams {
		if info.lines == lines {
			return Trigram(i)
		}
	}
	// every 3-bit pattern is in the table
	panic("hexagram: trigram table incomplete")
}

// Lines returns the bottom-to-top line values.
func (t Trigram) Lines() [3]Line { return trigrams[t].lines }

// Image is the natural image used in hexagram names (天, 澤, ...).
func (t Trigram) Image() string { return trigrams[t].image }

// PalaceElement is the gong element of the trigram's palace.
func (t Trigram) PalaceElement() Element { return trigrams[t].palace }

func (t Trigram) String() string {
	if t < 0 || int(t) >= TrigramCount {
		return "?"
	}
	return trigrams[t].name
}

// MarshalText encodes the trigram as its character.
func (t Trigram) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
