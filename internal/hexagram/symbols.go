package hexagram

import "strings"

// Element is one of the five phases (Wu Xing).
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

var elementNames = [...]string{"木", "火", "土", "金", "水"}

// generation: Wood→Fire→Earth→Metal→Water→Wood
var generates = [...]Element{Wood: Fire, Fire: Earth, Earth: Metal, Metal: Water, Water: Wood}

// destruction: Wood→Earth→Water→Fire→Metal→Wood
var destroys = [...]Element{Wood: Earth, Earth: Water, Water: Fire, Fire: Metal, Metal: Wood}

// Elements lists the five phases in generation order.
func Elements() []Element {
	return []Element{Wood, Fire, Earth, Metal, Water}
}

// Valid reports whether e is one of the five phases.
func (e Element) Valid() bool { return e >= Wood && e <= Water }

// Generates returns the element e gives rise to.
func (e Element) Generates() Element { return generates[e] }

// Destroys returns the element e overcomes.
func (e Element) Destroys() Element { return destroys[e] }

func (e Element) String() string {
	if !e.Valid() {
		return "?"
	}
	return elementNames[e]
}

// MarshalText encodes the element as its character.
func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// English returns the lower-case English name used in prompts and logs.
func (e Element) English() string {
	switch e {
	case Wood:
		return "wood"
	case Fire:
		return "fire"
	case Earth:
		return "earth"
	case Metal:
		return "metal"
	case Water:
		return "water"
	}
	return "unknown"
}

// Stem is one of the ten Heavenly Stems (天干).
type Stem int

var stemNames = [...]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var stemPinyin = [...]string{"jia", "yi", "bing", "ding", "wu", "ji", "geng", "xin", "ren", "gui"}

// StemCount is the length of the stem cycle.
const StemCount = len(stemNames)

// ParseStem accepts the character or its pinyin.
func ParseStem(name string) (Stem, error) {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for i := range stemNames {
		if stemNames[i] == trimmed || stemPinyin[i] == lower {
			return Stem(i), nil
		}
	}
	return 0, invalid(KindStem, name)
}

// StemAt wraps any index onto the stem cycle.
func StemAt(i int) Stem { return Stem(mod(i, StemCount)) }

// Element pairs the stems: 甲乙 wood, 丙丁 fire, 戊己 earth, 庚辛 metal, 壬癸 water.
func (s Stem) Element() Element { return Element(int(s) / 2) }

// Yang reports whether the stem has an even index (甲丙戊庚壬).
func (s Stem) Yang() bool { return s%2 == 0 }

func (s Stem) String() string {
	if s < 0 || int(s) >= StemCount {
		return "?"
	}
	return stemNames[s]
}

// MarshalText encodes the stem as its character.
func (s Stem) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Branch is one of the twelve Earthly Branches (地支).
type Branch int

var branchNames = [...]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

var branchPinyin = [...]string{"zi", "chou", "yin", "mao", "chen", "si", "wu", "wei", "shen", "you", "xu", "hai"}

var branchElements = [...]Element{
	Water, // 子
	Earth, // 丑
	Wood,  // 寅
	Wood,  // 卯
	Earth, // 辰
	Fire,  // 巳
	Fire,  // 午
	Earth, // 未
	Metal, // 申
	Metal, // 酉
	Earth, // 戌
	Water, // 亥
}

// BranchCount is the length of the branch cycle.
const BranchCount = len(branchNames)

// ParseBranch accepts the character or its pinyin.
func ParseBranch(name string) (Branch, error) {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for i := range branchNames {
		if branchNames[i] == trimmed || branchPinyin[i] == lower {
			return Branch(i), nil
		}
	}
	return 0, invalid(KindBranch, name)
}

// BranchAt wraps any index onto the branch cycle.
func BranchAt(i int) Branch { return Branch(mod(i, BranchCount)) }

// Element returns the fixed phase of the branch.
func (b Branch) Element() Element { return branchElements[b] }

func (b Branch) String() string {
	if b < 0 || int(b) >= BranchCount {
		return "?"
	}
	return branchNames[b]
}

// MarshalText encodes the branch as its character.
func (b Branch) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
