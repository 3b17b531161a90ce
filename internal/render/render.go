// Package render draws charts, readings and advice for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/hexagram"
	"github.com/kingrea/liuyao/internal/wuxing"
)

const (
	yangBar = "━━━━━━━"
	yinBar  = "━━━ ━━━"
	oldYang = "○"
	oldYin  = "×"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	headStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	bodyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	movingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	markStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")).PaddingRight(2)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

var positionNames = [6]string{"初", "二", "三", "四", "五", "上"}

// PositionLabel returns the classical line name, e.g. 初九 or 六二.
func PositionLabel(pos int, value hexagram.Line) string {
	if pos < 1 || pos > 6 {
		return ""
	}
	num := "六"
	if value == hexagram.Yang {
		num = "九"
	}
	switch pos {
	case 1:
		return positionNames[0] + num
	case 6:
		return positionNames[5] + num
	default:
		return num + positionNames[pos-1]
	}
}

// Bar draws a single line, with the moving mark when it changes.
func Bar(value hexagram.Line, moving bool) string {
	bar := yinBar
	mark := oldYin
	if value == hexagram.Yang {
		bar = yangBar
		mark = oldYang
	}
	if !moving {
		return bar + "  "
	}
	return movingStyle.Render(bar + " " + mark)
}

// Chart draws the primary figure top line first with spirits, na jia,
// relatives and 世/應 marks. The transformed figure, when present, is drawn
// in a right-hand column. pillars may be nil.
func Chart(c hexagram.Chart, pillars *ganzhi.Pillars) string {
	p := c.Primary
	title := titleStyle.Render(p.Name)
	if c.Transformed != nil {
		title += mutedStyle.Render(" 之 ") + titleStyle.Render(c.Transformed.Name)
	}
	palace := mutedStyle.Render(fmt.Sprintf("%s宮 %s · %s", p.Palace.Trigram, p.Palace.Generation, p.Palace.Element))

	var spirits, labels, bars, najia, relatives, marks []string
	var changed []string
	spirits = append(spirits, headStyle.Render("六神"))
	labels = append(labels, headStyle.Render("爻位"))
	bars = append(bars, headStyle.Render("本卦"))
	najia = append(najia, headStyle.Render("納甲"))
	relatives = append(relatives, headStyle.Render("六親"))
	marks = append(marks, headStyle.Render("世應"))
	if c.Transformed != nil {
		changed = append(changed, headStyle.Render("變卦"))
	}

	for i := 5; i >= 0; i-- {
		line := p.Lines[i]
		spirits = append(spirits, bodyStyle.Render(c.Spirits[i].String()))
		labels = append(labels, bodyStyle.Render(PositionLabel(line.Position, line.Value)))
		bars = append(bars, Bar(line.Value, line.Moving))
		najia = append(najia, bodyStyle.Render(line.Stem.String()+line.Branch.String()+line.Element.String()))
		relatives = append(relatives, bodyStyle.Render(line.Relative.String()))
		marks = append(marks, markStyle.Render(roleMark(p.Palace, line.Position)))
		if c.Transformed != nil {
			t := c.Transformed.Lines[i]
			changed = append(changed, Bar(t.Value, false)+" "+bodyStyle.Render(t.Branch.String()+t.Element.String()+" "+t.Relative.String()))
		}
	}

	columns := []string{
		column(spirits),
		column(labels),
		column(bars),
		column(najia),
		column(relatives),
		column(marks),
	}
	if c.Transformed != nil {
		columns = append(columns, dividerStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", 7), "\n")), column(changed))
	}
	sections := []string{title + "  " + palace}
	if pillars != nil {
		sections = append(sections, mutedStyle.Render(pillars.String()))
	}
	sections = append(sections, "", lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	return boxStyle.Render(strings.Join(sections, "\n"))
}

func column(cells []string) string {
	return cellStyle.Render(lipgloss.JoinVertical(lipgloss.Left, cells...))
}

func roleMark(p hexagram.Palace, pos int) string {
	switch pos {
	case p.Shi:
		return "世"
	case p.Ying:
		return "應"
	default:
		return ""
	}
}

// Reading draws the five scores as bars alongside the balance summary.
func Reading(r wuxing.Reading) string {
	var rows []string
	rows = append(rows, headStyle.Render(fmt.Sprintf("五行平衡 %.1f", r.BalanceScore)))
	for _, e := range hexagram.Elements() {
		score := r.Scores.Get(e)
		bar := strings.Repeat("█", score) + strings.Repeat("░", wuxing.MaxScore-score)
		style := bodyStyle
		switch {
		case score >= wuxing.ExcessThreshold:
			style = movingStyle
		case score <= wuxing.DeficiencyThreshold:
			style = warnStyle
		}
		rows = append(rows, fmt.Sprintf("%s %s %2d", e, style.Render(bar), score))
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("主 %s · 弱 %s", r.Dominant, r.Weak)))
	for _, im := range r.Imbalances {
		rows = append(rows, warnStyle.Render("⚠ "+im.Label))
	}
	for _, rec := range r.Recommendations {
		rows = append(rows, bodyStyle.Render("· "+rec))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}

// Advice draws advisor output with its source. Degraded advice carries the
// reason the backend was skipped.
func Advice(a advisor.Advice, width int) string {
	source := okStyle.Render(a.Source)
	if a.Model != "" {
		source += mutedStyle.Render(" · " + a.Model)
	}
	if !a.Offline() && a.ElapsedMS > 0 {
		source += mutedStyle.Render(fmt.Sprintf(" · %.1fs", float64(a.ElapsedMS)/1000))
	}
	if a.Degraded {
		source = warnStyle.Render(fmt.Sprintf("%s (backend unavailable: %s)", a.Source, a.Reason))
	}
	lines := []string{headStyle.Render("解讀") + "  " + source}
	if a.Pattern.Classified() {
		lines = append(lines, mutedStyle.Render("體質標記 "+a.Pattern.Label))
	}
	body := bodyStyle
	if width > 4 {
		body = body.Width(width - 4)
	}
	lines = append(lines, "", body.Render(strings.TrimSpace(a.Text)))
	return boxStyle.Render(strings.Join(lines, "\n"))
}
