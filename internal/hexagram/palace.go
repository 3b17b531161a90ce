package hexagram

// Generation is a hexagram's place inside its palace.
type Generation int

const (
	GenPure       Generation = iota // 本宮
	GenFirst                        // 一世
	GenSecond                       // 二世
	GenThird                        // 三世
	GenFourth                       // 四世
	GenFifth                        // 五世
	GenWandering                    // 遊魂
	GenReturning                    // 歸魂
)

var generationNames = [...]string{"本宮", "一世", "二世", "三世", "四世", "五世", "遊魂", "歸魂"}

// shi line per generation
var shiPositions = [...]int{6, 1, 2, 3, 4, 5, 4, 3}

func (g Generation) String() string {
	if g < GenPure || g > GenReturning {
		return "?"
	}
	return generationNames[g]
}

// MarshalText encodes the generation by its traditional label.
func (g Generation) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// Palace locates a hexagram in the eight-palace arrangement.
type Palace struct {
	Trigram    Trigram    `json:"trigram"`
	Element    Element    `json:"element"`
	Generation Generation `json:"generation"`
	Shi        int        `json:"shi"`  // 世 line, 1-6
	Ying       int        `json:"ying"` // 應 line, 1-6
}

var palaces = buildPalaces()

// buildPalaces walks each pure hexagram through the eight-step line-flip
// sequence: lines 1..5 flip cumulatively, then line 4 flips back (遊魂), then
// the lower trigram returns to the palace's own (歸魂).
func buildPalaces() map[Hexagram]Palace {
	out := make(map[Hexagram]Palace, TrigramCount*TrigramCount)
	for _, t := range Trigrams() {
		h := FromTrigrams(t, t)
		record := func(g Generation) {
			shi := shiPositions[g]
			ying := shi + 3
			if ying > 6 {
				ying -= 6
			}
			out[h] = Palace{Trigram: t, Element: t.PalaceElement(), Generation: g, Shi: shi, Ying: ying}
		}
		record(GenPure)
		for i := 0; i < 5; i++ {
			h[i] = h[i].Flip()
			record(GenFirst + Generation(i))
		}
		h[3] = h[3].Flip()
		record(GenWandering)
		for i := 0; i < 3; i++ {
			h[i] = h[i].Flip()
		}
		record(GenReturning)
	}
	return out
}

// PalaceOf returns the palace the hexagram belongs to. Every one of the 64
// hexagrams appears in exactly one palace.
func PalaceOf(h Hexagram) Palace {
	return palaces[h]
}

// GongElement is the palace element used as the Six-Relatives reference.
func (h Hexagram) GongElement() Element {
	return palaces[h].Element
}
