package hexagram

import "math/rand"

// Toss is the sum of three coins (heads 3, tails 2) for one line.
type Toss int

const (
	OldYin    Toss = 6 // yin, moving
	YoungYang Toss = 7
	YoungYin  Toss = 8
	OldYang   Toss = 9 // yang, moving
)

// Line returns the polarity before any movement.
func (t Toss) Line() Line {
	if t == YoungYang || t == OldYang {
		return Yang
	}
	return Yin
}

// Moving reports whether the toss is an old (changing) line.
func (t Toss) Moving() bool { return t == OldYin || t == OldYang }

// Cast records six tosses, bottom line first.
type Cast [6]Toss

// CastCoins throws three coins per line using rng.
func CastCoins(rng *rand.Rand) Cast {
	var c Cast
	for i := range c {
		sum := 0
		for coin := 0; coin < 3; coin++ {
			sum += 2 + rng.Intn(2)
		}
		c[i] = Toss(sum)
	}
	return c
}

// Hexagram returns the primary figure of the cast.
func (c Cast) Hexagram() Hexagram {
	var h Hexagram
	for i, t := range c {
		h[i] = t.Line()
	}
	return h
}

// Moving returns the moving-line flags of the cast.
func (c Cast) Moving() [6]bool {
	var m [6]bool
	for i, t := range c {
		m[i] = t.Moving()
	}
	return m
}
