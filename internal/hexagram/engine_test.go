package hexagram

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerationCycleIsSingleFiveCycle(t *testing.T) {
	for _, e := range Elements() {
		if e.Generates() == e {
			t.Fatalf("%s generates itself", e)
		}
		if e.Destroys() == e {
			t.Fatalf("%s destroys itself", e)
		}
		cur := e
		for i := 0; i < 5; i++ {
			cur = cur.Generates()
			if i < 4 && cur == e {
				t.Fatalf("generation cycle from %s closes after %d steps", e, i+1)
			}
		}
		if cur != e {
			t.Fatalf("five generation steps from %s ended at %s", e, cur)
		}
	}
}

func TestEveryDistinctPairFallsUnderOneCycle(t *testing.T) {
	for _, a := range Elements() {
		for _, b := range Elements() {
			if a == b {
				continue
			}
			hits := 0
			for _, rel := range []bool{a.Generates() == b, b.Generates() == a, a.Destroys() == b, b.Destroys() == a} {
				if rel {
					hits++
				}
			}
			if hits != 1 {
				t.Fatalf("pair %s/%s matched %d relations", a, b, hits)
			}
		}
	}
}

func TestClassifySiblingForMatchingElement(t *testing.T) {
	for b := 0; b < BranchCount; b++ {
		branch := Branch(b)
		got, err := ClassifySixRelative(branch.Element(), branch.String())
		if err != nil {
			t.Fatalf("classify %s: %v", branch, err)
		}
		if got != Sibling {
			t.Fatalf("expected Sibling for %s against %s, got %s", branch, branch.Element(), got)
		}
	}
}

func TestClassifySixRelativeOrdering(t *testing.T) {
	cases := []struct {
		gong   Element
		branch string
		want   SixRelative
	}{
		{Metal, "子", Parent},    // metal generates water
		{Metal, "辰", Offspring}, // earth generates metal
		{Metal, "寅", Wealth},    // metal destroys wood
		{Metal, "午", Official},  // fire destroys metal
		{Metal, "酉", Sibling},
		{Wood, "巳", Parent},
		{Wood, "亥", Offspring},
		{Wood, "丑", Wealth},
		{Wood, "申", Official},
		{Water, "子", Sibling},
	}
	for _, tc := range cases {
		got, err := ClassifySixRelative(tc.gong, tc.branch)
		if err != nil {
			t.Fatalf("classify %s/%s: %v", tc.gong, tc.branch, err)
		}
		if got != tc.want {
			t.Fatalf("classify %s/%s: expected %s, got %s", tc.gong, tc.branch, tc.want, got)
		}
	}
}

func TestClassifySixRelativeRejectsUnknownBranch(t *testing.T) {
	_, err := ClassifySixRelative(Wood, "X")
	var symErr *InvalidTrigramError
	if !errors.As(err, &symErr) || symErr.Kind != KindBranch {
		t.Fatalf("expected branch error, got %v", err)
	}
}

func TestAssignSixSpiritsGeng(t *testing.T) {
	got, err := AssignSixSpirits("庚")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	want := [6]SixSpirit{WhiteTiger, BlackTortoise, AzureDragon, VermilionBird, HookChen, FlyingSnake}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spirits mismatch (-want +got):\n%s", diff)
	}
	names := []string{"白虎", "玄武", "青龍", "朱雀", "勾陳", "螣蛇"}
	for i, s := range got {
		if s.String() != names[i] {
			t.Fatalf("position %d: expected %s, got %s", i+1, names[i], s)
		}
	}
}

func TestAssignSixSpiritsIsContiguousRotation(t *testing.T) {
	for s := 0; s < StemCount; s++ {
		stem := Stem(s)
		got, err := AssignSixSpirits(stem.String())
		if err != nil {
			t.Fatalf("assign %s: %v", stem, err)
		}
		seen := map[SixSpirit]bool{}
		for i := range got {
			if seen[got[i]] {
				t.Fatalf("stem %s repeats %s", stem, got[i])
			}
			seen[got[i]] = true
			next := got[(i+1)%6]
			if next != SixSpirit((int(got[i])+1)%6) {
				t.Fatalf("stem %s: %s followed by %s", stem, got[i], next)
			}
		}
		if got[0] != SixSpirit(spiritOffsets[stem]) {
			t.Fatalf("stem %s starts at %s", stem, got[0])
		}
	}
}

func TestAssignSixSpiritsRejectsUnknownStem(t *testing.T) {
	if _, err := AssignSixSpirits("子"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected invalid symbol error, got %v", err)
	}
}

func TestPalacesPartitionAllHexagrams(t *testing.T) {
	counts := map[Trigram]int{}
	for _, upper := range Trigrams() {
		for _, lower := range Trigrams() {
			h := FromTrigrams(upper, lower)
			p, ok := palaces[h]
			if !ok {
				t.Fatalf("%s has no palace", h.Name())
			}
			counts[p.Trigram]++
			if p.Shi < 1 || p.Shi > 6 || p.Ying < 1 || p.Ying > 6 {
				t.Fatalf("%s has shi/ying %d/%d", h.Name(), p.Shi, p.Ying)
			}
			if diff := p.Shi - p.Ying; diff != 3 && diff != -3 {
				t.Fatalf("%s shi and ying are not three apart", h.Name())
			}
		}
	}
	for _, tri := range Trigrams() {
		if counts[tri] != 8 {
			t.Fatalf("palace %s holds %d hexagrams", tri, counts[tri])
		}
	}
}

func TestPalaceOfKnownHexagrams(t *testing.T) {
	cases := []struct {
		upper, lower string
		palace       Trigram
		gen          Generation
		shi          int
	}{
		{"乾", "乾", Qian, GenPure, 6},
		{"乾", "巽", Qian, GenFirst, 1},
		{"離", "坤", Qian, GenWandering, 4},
		{"離", "乾", Qian, GenReturning, 3},
		{"坤", "乾", Kun, GenThird, 3},
		{"水", "火", Kan, GenThird, 3},
		{"巽", "兌", Gen, GenWandering, 4},
	}
	for _, tc := range cases {
		h, err := Resolve(tc.upper, tc.lower)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		p := PalaceOf(h)
		if p.Trigram != tc.palace || p.Generation != tc.gen || p.Shi != tc.shi {
			t.Fatalf("%s: expected %s %s shi %d, got %s %s shi %d", h.Name(), tc.palace, tc.gen, tc.shi, p.Trigram, p.Generation, p.Shi)
		}
	}
}

func TestBuildChartPureQian(t *testing.T) {
	chart, err := BuildChart(Selection{Upper: "乾", Lower: "乾", DayStem: "庚"})
	if err != nil {
		t.Fatalf("build chart: %v", err)
	}
	if chart.Transformed != nil {
		t.Fatalf("expected no transformed figure without moving lines")
	}
	if chart.Primary.Name != "乾為天" {
		t.Fatalf("expected 乾為天, got %s", chart.Primary.Name)
	}
	var branches []string
	var relatives []SixRelative
	for _, line := range chart.Primary.Lines {
		branches = append(branches, line.Branch.String())
		relatives = append(relatives, line.Relative)
	}
	if diff := cmp.Diff([]string{"子", "寅", "辰", "午", "申", "戌"}, branches); diff != "" {
		t.Fatalf("branches mismatch (-want +got):\n%s", diff)
	}
	wantRel := []SixRelative{Parent, Wealth, Offspring, Official, Sibling, Offspring}
	if diff := cmp.Diff(wantRel, relatives); diff != "" {
		t.Fatalf("relatives mismatch (-want +got):\n%s", diff)
	}
	if chart.Primary.Lines[0].Stem.String() != "甲" || chart.Primary.Lines[3].Stem.String() != "壬" {
		t.Fatalf("unexpected na jia stems: %s / %s", chart.Primary.Lines[0].Stem, chart.Primary.Lines[3].Stem)
	}
	if chart.Spirits[0] != WhiteTiger {
		t.Fatalf("expected 白虎 on line 1, got %s", chart.Spirits[0])
	}
}

func TestBuildChartTransformedUsesPrimaryPalace(t *testing.T) {
	chart, err := BuildChart(Selection{Upper: "乾", Lower: "乾", DayStem: "甲", Moving: [6]bool{true}})
	if err != nil {
		t.Fatalf("build chart: %v", err)
	}
	if chart.Transformed == nil {
		t.Fatalf("expected transformed figure")
	}
	tr := chart.Transformed
	if tr.Name != "天風姤" {
		t.Fatalf("expected 天風姤, got %s", tr.Name)
	}
	if tr.Lines[0].Branch.String() != "丑" {
		t.Fatalf("expected 丑 on changed line, got %s", tr.Lines[0].Branch)
	}
	if tr.Lines[0].Relative != Offspring {
		t.Fatalf("expected relative against metal palace, got %s", tr.Lines[0].Relative)
	}
	if !chart.Primary.Lines[0].Moving || chart.Primary.Lines[1].Moving {
		t.Fatalf("moving flags not carried onto primary lines")
	}
}

func TestBuildChartRejectsBadStem(t *testing.T) {
	if _, err := BuildChart(Selection{Upper: "乾", Lower: "坤", DayStem: ""}); err == nil {
		t.Fatalf("expected error for empty day stem")
	}
}

func TestParseSixRelative(t *testing.T) {
	cases := []struct {
		in   string
		want SixRelative
	}{
		{"妻財", Wealth},
		{"財", Wealth},
		{" 官鬼 ", Official},
		{"鬼", Official},
		{"Parent", Parent},
		{"子孫", Offspring},
		{"兄弟", Sibling},
	}
	for _, tc := range cases {
		got, err := ParseSixRelative(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
	if _, err := ParseSixRelative("用神"); !errors.Is(err, ErrInvalidSymbol) {
		t.Fatalf("expected invalid symbol error, got %v", err)
	}
}

func TestChartLinesWith(t *testing.T) {
	chart, err := BuildChart(Selection{Upper: "乾", Lower: "乾", DayStem: "甲"})
	if err != nil {
		t.Fatalf("build chart: %v", err)
	}
	if diff := cmp.Diff([]int{3, 6}, chart.LinesWith(Offspring)); diff != "" {
		t.Fatalf("offspring lines mismatch (-want +got):\n%s", diff)
	}
	if got := chart.LinesWith(Sibling); len(got) != 1 || got[0] != 5 {
		t.Fatalf("expected sibling on line 5, got %v", got)
	}
}
