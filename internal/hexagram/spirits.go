package hexagram

// SixSpirit is one of the six animal spirits (六獸).
type SixSpirit int

const (
	AzureDragon   SixSpirit = iota // 青龍
	VermilionBird                  // 朱雀
	HookChen                       // 勾陳
	FlyingSnake                    // 螣蛇
	WhiteTiger                     // 白虎
	BlackTortoise                  // 玄武
)

var spiritNames = [...]string{"青龍", "朱雀", "勾陳", "螣蛇", "白虎", "玄武"}

// spiritOffsets maps each day stem to the spirit on line 1.
var spiritOffsets = [StemCount]int{
	0, 0, // 甲乙
	1, 1, // 丙丁
	2,    // 戊
	3,    // 己
	4, 4, // 庚辛
	5, 5, // 壬癸
}

func (s SixSpirit) String() string {
	if s < AzureDragon || s > BlackTortoise {
		return "?"
	}
	return spiritNames[s]
}

// MarshalText encodes the spirit by its traditional label.
func (s SixSpirit) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// AssignSixSpirits returns the spirits for lines 1..6 given the day stem.
func AssignSixSpirits(dayStem string) ([6]SixSpirit, error) {
	stem, err := ParseStem(dayStem)
	if err != nil {
		return [6]SixSpirit{}, err
	}
	return SpiritsFor(stem), nil
}

// SpiritsFor rotates the canonical sequence to the stem's offset.
func SpiritsFor(stem Stem) [6]SixSpirit {
	offset := spiritOffsets[stem]
	var out [6]SixSpirit
	for i := range out {
		out[i] = SixSpirit((offset + i) % len(spiritNames))
	}
	return out
}
