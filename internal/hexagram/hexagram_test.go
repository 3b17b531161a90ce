package hexagram

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveConcatenatesLowerThenUpper(t *testing.T) {
	for _, upper := range Trigrams() {
		for _, lower := range Trigrams() {
			h, err := Resolve(upper.String(), lower.String())
			if err != nil {
				t.Fatalf("resolve %s/%s: %v", upper, lower, err)
			}
			lo, up := lower.Lines(), upper.Lines()
			want := Hexagram{lo[0], lo[1], lo[2], up[0], up[1], up[2]}
			if h != want {
				t.Fatalf("resolve %s/%s: expected %v, got %v", upper, lower, want, h)
			}
			if h.Upper() != upper || h.Lower() != lower {
				t.Fatalf("decomposition of %s/%s returned %s/%s", upper, lower, h.Upper(), h.Lower())
			}
			if name := Name(upper.String(), lower.String()); name == "" {
				t.Fatalf("empty name for %s/%s", upper, lower)
			}
		}
	}
}

func TestNamesAreUniqueAcrossTable(t *testing.T) {
	seen := map[string]string{}
	for _, upper := range Trigrams() {
		for _, lower := range Trigrams() {
			name := Name(upper.String(), lower.String())
			key := upper.String() + lower.String()
			if prev, ok := seen[name]; ok {
				t.Fatalf("name %s used by %s and %s", name, prev, key)
			}
			seen[name] = key
		}
	}
	if len(seen) != 64 {
		t.Fatalf("expected 64 names, got %d", len(seen))
	}
}

func TestPureHexagramNames(t *testing.T) {
	want := map[string]string{
		"乾": "乾為天", "坤": "坤為地", "坎": "坎為水", "離": "離為火",
		"震": "震為雷", "艮": "艮為山", "巽": "巽為風", "兌": "兌為澤",
	}
	for trigram, name := range want {
		if got := Name(trigram, trigram); got != name {
			t.Fatalf("expected %s for %s%s, got %s", name, trigram, trigram, got)
		}
	}
}

func TestQianOverKun(t *testing.T) {
	h, err := Resolve("乾", "坤")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if diff := cmp.Diff(Hexagram{0, 0, 0, 1, 1, 1}, h); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if got := Name("乾", "坤"); got != "天地否" {
		t.Fatalf("expected 天地否, got %s", got)
	}
	if got := Name("坤", "乾"); got != "地天泰" {
		t.Fatalf("expected 地天泰, got %s", got)
	}
	if got := Name("乾", "坎"); got != "天水訟" {
		t.Fatalf("expected 天水訟, got %s", got)
	}
}

func TestNameFallbackForUnknownTrigram(t *testing.T) {
	if got := Name("X", "坤"); got != "X坤卦" {
		t.Fatalf("expected synthesized label, got %s", got)
	}
}

func TestResolveRejectsUnknownTrigram(t *testing.T) {
	_, err := Resolve("乾", "nope")
	if err == nil {
		t.Fatalf("expected error for unknown trigram")
	}
	var symErr *InvalidTrigramError
	if !errors.As(err, &symErr) {
		t.Fatalf("expected InvalidTrigramError, got %T", err)
	}
	if symErr.Kind != KindTrigram || symErr.Value != "nope" {
		t.Fatalf("unexpected error detail: %+v", symErr)
	}
	if !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected errors.Is ErrInvalidSymbol")
	}
}

func TestParseTrigramAliases(t *testing.T) {
	cases := map[string]Trigram{"qian": Qian, "兑": Dui, "离": Li, " Kun ": Kun, "wind": Xun}
	for input, want := range cases {
		got, err := ParseTrigram(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
}

func TestApplyMovingYao(t *testing.T) {
	for _, upper := range Trigrams() {
		for _, lower := range Trigrams() {
			h := FromTrigrams(upper, lower)
			if got := ApplyMovingYao(h, [6]bool{}); got != h {
				t.Fatalf("no flags should be identity for %s", h.Name())
			}
			all := [6]bool{true, true, true, true, true, true}
			flipped := ApplyMovingYao(h, all)
			for i := range h {
				if flipped[i] == h[i] {
					t.Fatalf("line %d of %s not complemented", i+1, h.Name())
				}
			}
			some := [6]bool{true, false, true, false, false, true}
			if back := ApplyMovingYao(ApplyMovingYao(h, some), some); back != h {
				t.Fatalf("applying twice should restore %s", h.Name())
			}
		}
	}
}

func TestApplyMovingYaoDoesNotMutateInput(t *testing.T) {
	h := FromTrigrams(Qian, Qian)
	_ = ApplyMovingYao(h, [6]bool{true})
	if h != FromTrigrams(Qian, Qian) {
		t.Fatalf("input hexagram was mutated")
	}
}

func TestCastCoinsProducesConsistentFigure(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 50; n++ {
		c := CastCoins(rng)
		for i, toss := range c {
			if toss < OldYin || toss > OldYang {
				t.Fatalf("toss %d out of range: %d", i, toss)
			}
		}
		h := c.Hexagram()
		moving := c.Moving()
		for i, toss := range c {
			if moving[i] != (toss == OldYin || toss == OldYang) {
				t.Fatalf("moving flag mismatch at line %d", i+1)
			}
			if (h[i] == Yang) != (toss == YoungYang || toss == OldYang) {
				t.Fatalf("line polarity mismatch at line %d", i+1)
			}
		}
	}
}
