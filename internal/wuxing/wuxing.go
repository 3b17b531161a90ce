// Package wuxing produces a Five-Elements constitutional reading from
// self-assessed element scores.
package wuxing

import (
	"fmt"
	"math"

	"github.com/kingrea/liuyao/internal/hexagram"
)

const (
	// MaxScore is the top of the 0..MaxScore scale each element is rated on.
	MaxScore = 10
	// ExcessThreshold marks the strongest element as excessive.
	ExcessThreshold = 8
	// DeficiencyThreshold marks the weakest element as deficient.
	DeficiencyThreshold = 4

	professionalReferral = "建議尋求專業中醫師進行體質調理"
)

// Scores rates each element; JSON keys follow the pinyin names.
type Scores struct {
	Wood  int `json:"mu"`
	Fire  int `json:"huo"`
	Earth int `json:"tu"`
	Metal int `json:"jin"`
	Water int `json:"shui"`
}

// Get returns the score of e.
func (s Scores) Get(e hexagram.Element) int {
	switch e {
	case hexagram.Wood:
		return s.Wood
	case hexagram.Fire:
		return s.Fire
	case hexagram.Earth:
		return s.Earth
	case hexagram.Metal:
		return s.Metal
	case hexagram.Water:
		return s.Water
	}
	return 0
}

// Validate checks every score is within 0..MaxScore.
func (s Scores) Validate() error {
	for _, e := range hexagram.Elements() {
		if v := s.Get(e); v < 0 || v > MaxScore {
			return fmt.Errorf("wuxing: %s score %d outside 0..%d", e.English(), v, MaxScore)
		}
	}
	return nil
}

// ImbalanceKind distinguishes excess from deficiency.
type ImbalanceKind string

const (
	Excess     ImbalanceKind = "excess"
	Deficiency ImbalanceKind = "deficiency"
)

// Imbalance flags one element outside the comfortable band.
type Imbalance struct {
	Element hexagram.Element `json:"element"`
	Kind    ImbalanceKind    `json:"kind"`
	Label   string           `json:"label"`
}

// Reading is the analysed result of a Scores value.
type Reading struct {
	Scores          Scores           `json:"scores"`
	Dominant        hexagram.Element `json:"dominant"`
	Weak            hexagram.Element `json:"weak"`
	BalanceScore    float64          `json:"balance_score"`
	Imbalances      []Imbalance      `json:"imbalances"`
	Recommendations []string         `json:"recommendations"`
}

// Analyze finds the dominant and weak elements, scores overall balance and
// lists imbalances. Ties resolve to the earlier element in generation order.
func Analyze(s Scores) (Reading, error) {
	if err := s.Validate(); err != nil {
		return Reading{}, err
	}
	elements := hexagram.Elements()
	dominant, weak := elements[0], elements[0]
	sum := 0.0
	for _, e := range elements {
		v := s.Get(e)
		if v > s.Get(dominant) {
			dominant = e
		}
		if v < s.Get(weak) {
			weak = e
		}
		sum += float64(v)
	}
	mean := sum / float64(len(elements))
	variance := 0.0
	for _, e := range elements {
		d := float64(s.Get(e)) - mean
		variance += d * d
	}
	variance /= float64(len(elements))

	r := Reading{
		Scores:          s,
		Dominant:        dominant,
		Weak:            weak,
		BalanceScore:    math.Max(0, 100-math.Sqrt(variance)*20),
		Imbalances:      []Imbalance{},
		Recommendations: []string{},
	}
	if s.Get(dominant) >= ExcessThreshold {
		r.Imbalances = append(r.Imbalances, Imbalance{Element: dominant, Kind: Excess, Label: dominant.String() + "氣過旺"})
	}
	if s.Get(weak) <= DeficiencyThreshold {
		r.Imbalances = append(r.Imbalances, Imbalance{Element: weak, Kind: Deficiency, Label: weak.String() + "氣不足"})
	}
	if len(r.Imbalances) > 0 {
		r.Recommendations = append(r.Recommendations, professionalReferral)
	}
	return r, nil
}
