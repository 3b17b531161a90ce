package hexagram

import "strings"

// SixRelative classifies a line against its palace element (六親).
type SixRelative int

const (
	Sibling   SixRelative = iota // 兄弟
	Parent                       // 父母
	Offspring                    // 子孫
	Wealth                       // 妻財
	Official                     // 官鬼
)

var relativeNames = [...]string{"兄弟", "父母", "子孫", "妻財", "官鬼"}

var relativeAliases = map[string]SixRelative{
	"兄": Sibling, "sibling": Sibling,
	"父": Parent, "parent": Parent,
	"子": Offspring, "offspring": Offspring,
	"財": Wealth, "wealth": Wealth,
	"官": Official, "鬼": Official, "official": Official,
}

// ParseSixRelative accepts the two-character label, its short form (財, 官)
// or the English name.
func ParseSixRelative(name string) (SixRelative, error) {
	trimmed := strings.TrimSpace(name)
	for i, label := range relativeNames {
		if trimmed == label {
			return SixRelative(i), nil
		}
	}
	if r, ok := relativeAliases[strings.ToLower(trimmed)]; ok {
		return r, nil
	}
	return Sibling, invalid(KindRelative, name)
}

func (r SixRelative) String() string {
	if r < Sibling || r > Official {
		return "?"
	}
	return relativeNames[r]
}

// MarshalText encodes the relative by its traditional label.
func (r SixRelative) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// ClassifySixRelative derives the branch's element and relates it to gong.
// An unrecognised branch is an error, never a silent Sibling.
func ClassifySixRelative(gong Element, branch string) (SixRelative, error) {
	if !gong.Valid() {
		return Sibling, invalid(KindElement, gong.String())
	}
	b, err := ParseBranch(branch)
	if err != nil {
		return Sibling, err
	}
	return Relate(gong, b.Element()), nil
}

// Relate applies the tie-break order: equality, then both generation
// directions, then both destruction directions.
func Relate(gong, line Element) SixRelative {
	switch {
	case line == gong:
		return Sibling
	case gong.Generates() == line:
		return Parent
	case line.Generates() == gong:
		return Offspring
	case gong.Destroys() == line:
		return Wealth
	case line.Destroys() == gong:
		return Official
	}
	// unreachable for valid elements
	return Sibling
}
