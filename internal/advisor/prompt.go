package advisor

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/hexagram"
	"github.com/kingrea/liuyao/internal/wuxing"
)

// HexagramFacts is everything the advisor knows about a divination.
type HexagramFacts struct {
	Question string
	YongShen string
	Chart    hexagram.Chart
	Pillars  *ganzhi.Pillars
}

// ConstitutionFacts is everything the advisor knows about a body reading.
type ConstitutionFacts struct {
	Reading  wuxing.Reading
	Symptoms []string
}

type lineRow struct {
	Position   int
	Mark       string
	Moving     bool
	StemBranch string
	Element    string
	Relative   string
	Spirit     string
	Role       string
}

type hexagramView struct {
	Question    string
	YongShen    string
	YongLines   string
	Pillars     string
	Void        string
	Name        string
	Palace      string
	Generation  string
	Rows        []lineRow
	Transformed string
}

type constitutionView struct {
	Scores       []string
	Dominant     string
	Weak         string
	Balance      string
	Imbalances   string
	Symptoms     string
	Constitution string
}

var hexagramPrompt = template.Must(template.New("hexagram").Parse(`你是一位精通六爻占卜的顧問。請根據以下排盤資料，以繁體中文提供分析。
{{if .Question}}所問之事：{{.Question}}
{{end}}{{if .YongShen}}用神：{{.YongShen}}{{if .YongLines}}（{{.YongLines}}）{{end}}
{{end}}{{if .Pillars}}起卦時間：{{.Pillars}}，旬空 {{.Void}}
{{end}}本卦：{{.Name}}（{{.Palace}}宮{{.Generation}}）
{{range .Rows}}第{{.Position}}爻 {{.Mark}}{{if .Moving}} 動{{end}} {{.StemBranch}}{{.Element}} {{.Relative}} {{.Spirit}}{{if .Role}} {{.Role}}{{end}}
{{end}}{{if .Transformed}}變卦：{{.Transformed}}
{{end}}
請依序說明：整體卦意、動爻影響、用神狀態、具體建議、時機判斷。
`))

var constitutionPrompt = template.Must(template.New("constitution").Parse(`你是一位中醫體質調理顧問。請根據以下五行評分，以繁體中文提供體質分析與調理建議。
五行評分（0-10）：{{range $i, $s := .Scores}}{{if $i}}、{{end}}{{$s}}{{end}}
最旺：{{.Dominant}}；最弱：{{.Weak}}；平衡分數：{{.Balance}}
{{if .Imbalances}}失衡：{{.Imbalances}}
{{end}}{{if .Symptoms}}自述症狀：{{.Symptoms}}
{{end}}參考體質：{{.Constitution}}

請說明：體質判斷、可能證型、建議就診科別、飲食與生活調理。此建議僅供參考，不能取代醫師診斷。
`))

// HexagramPrompt renders the prompt sent to the text-generation backend.
func HexagramPrompt(f HexagramFacts) (string, error) {
	var b strings.Builder
	if err := hexagramPrompt.Execute(&b, newHexagramView(f)); err != nil {
		return "", fmt.Errorf("advisor: render hexagram prompt: %w", err)
	}
	return b.String(), nil
}

// ConstitutionPrompt renders the prompt for a constitution reading.
func ConstitutionPrompt(f ConstitutionFacts) (string, error) {
	view, err := newConstitutionView(f)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := constitutionPrompt.Execute(&b, view); err != nil {
		return "", fmt.Errorf("advisor: render constitution prompt: %w", err)
	}
	return b.String(), nil
}

func newHexagramView(f HexagramFacts) hexagramView {
	c := f.Chart
	v := hexagramView{
		Question:   strings.TrimSpace(f.Question),
		YongShen:   strings.TrimSpace(f.YongShen),
		Name:       c.Primary.Name,
		Palace:     c.Primary.Palace.Trigram.String(),
		Generation: c.Primary.Palace.Generation.String(),
	}
	if v.YongShen != "" {
		v.YongLines = describeYongShen(c, v.YongShen)
	}
	if f.Pillars != nil {
		p := *f.Pillars
		v.Pillars = fmt.Sprintf("%s年 %s月 %s日 %s時", p.Year, p.Month, p.Day, p.Hour)
		v.Void = p.Void[0].String() + p.Void[1].String()
	}
	for i := 5; i >= 0; i-- {
		l := c.Primary.Lines[i]
		row := lineRow{
			Position:   l.Position,
			Mark:       l.Value.String(),
			Moving:     l.Moving,
			StemBranch: l.Stem.String() + l.Branch.String(),
			Element:    l.Element.String(),
			Relative:   l.Relative.String(),
			Spirit:     c.Spirits[i].String(),
		}
		switch l.Position {
		case c.Primary.Palace.Shi:
			row.Role = "世"
		case c.Primary.Palace.Ying:
			row.Role = "應"
		}
		v.Rows = append(v.Rows, row)
	}
	if c.Transformed != nil {
		v.Transformed = c.Transformed.Name
	}
	return v
}

// describeYongShen reports where the named relative sits, or an empty string
// when the name is not a relative (free-form yong shen is passed through).
func describeYongShen(c hexagram.Chart, name string) string {
	rel, err := hexagram.ParseSixRelative(name)
	if err != nil {
		return ""
	}
	lines := c.LinesWith(rel)
	if len(lines) == 0 {
		return rel.String() + "不上卦"
	}
	return "見於第" + joinInts(lines, "、") + "爻"
}

func newConstitutionView(f ConstitutionFacts) (constitutionView, error) {
	r := f.Reading
	local, err := wuxing.AdviceFor(r.Dominant)
	if err != nil {
		return constitutionView{}, fmt.Errorf("advisor: %w", err)
	}
	v := constitutionView{
		Dominant:     r.Dominant.String(),
		Weak:         r.Weak.String(),
		Balance:      fmt.Sprintf("%.1f", r.BalanceScore),
		Symptoms:     strings.Join(trimAll(f.Symptoms), "、"),
		Constitution: local.Constitution,
	}
	for _, e := range hexagram.Elements() {
		v.Scores = append(v.Scores, fmt.Sprintf("%s %d", e, r.Scores.Get(e)))
	}
	labels := make([]string, 0, len(r.Imbalances))
	for _, im := range r.Imbalances {
		labels = append(labels, im.Label)
	}
	v.Imbalances = strings.Join(labels, "、")
	return v, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinInts(values []int, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, sep)
}
