// Package tui is the interactive chart editor. It follows the bubbletea
// model/update/view loop: the App holds the selection, every edit rebuilds
// the chart through the engine, and advisor calls run as commands so the
// update loop never blocks.
package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/hexagram"
	"github.com/kingrea/liuyao/internal/logbook"
	"github.com/kingrea/liuyao/internal/render"
)

// appState represents which "screen" has focus.
type appState int

const (
	stateChart    appState = iota // chart with single-key editing
	statePickUpper                // trigram list for the upper trigram
	statePickLower                // trigram list for the lower trigram
	stateQuestion                 // question text input
)

const journalLines = 6

// Advisor is the subset of *advisor.Advisor the UI needs.
type Advisor interface {
	Hexagram(ctx context.Context, f advisor.HexagramFacts) (advisor.Advice, error)
	Backend() string
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithAdvisor sets the advisor used by the ask key.
func WithAdvisor(a Advisor) AppOption {
	return func(app *App) {
		if a != nil {
			app.advisor = a
		}
	}
}

// WithClock overrides the wall clock used for "now".
func WithClock(clock func() time.Time) AppOption {
	return func(app *App) {
		if clock != nil {
			app.clock = clock
		}
	}
}

// WithRand fixes the coin source.
func WithRand(rng *rand.Rand) AppOption {
	return func(app *App) {
		if rng != nil {
			app.rng = rng
		}
	}
}

// WithCalendar sets the pillar rules.
func WithCalendar(cal ganzhi.Calendar) AppOption {
	return func(app *App) {
		app.calendar = cal
	}
}

// WithLogbook records casts and answers to the session journal.
func WithLogbook(book *logbook.Logbook) AppOption {
	return func(app *App) {
		app.logbook = book
	}
}

// WithContext bounds advisor calls.
func WithContext(ctx context.Context) AppOption {
	return func(app *App) {
		if ctx != nil {
			app.ctx = ctx
		}
	}
}

// adviceMsg carries an answer for the selection at generation gen.
type adviceMsg struct {
	gen    int
	chart  string
	advice advisor.Advice
	err    error
}

type trigramItem struct {
	trigram hexagram.Trigram
}

func (i trigramItem) Title() string { return fmt.Sprintf("%s %s", i.trigram, i.trigram.Image()) }
func (i trigramItem) Description() string {
	lines := i.trigram.Lines()
	var b strings.Builder
	for j := len(lines) - 1; j >= 0; j-- {
		b.WriteString(lines[j].String())
	}
	return fmt.Sprintf("%s · %s", b.String(), i.trigram.PalaceElement())
}
func (i trigramItem) FilterValue() string { return i.trigram.String() }

// yongShenCycle is the order the 用神 key steps through; nil clears it.
var yongShenCycle = []*hexagram.SixRelative{
	nil,
	relativePtr(hexagram.Parent),
	relativePtr(hexagram.Sibling),
	relativePtr(hexagram.Offspring),
	relativePtr(hexagram.Wealth),
	relativePtr(hexagram.Official),
}

func relativePtr(r hexagram.SixRelative) *hexagram.SixRelative { return &r }

// App is the main application model.
type App struct {
	state    appState
	ctx      context.Context
	advisor  Advisor
	calendar ganzhi.Calendar
	clock    func() time.Time
	rng      *rand.Rand
	logbook  *logbook.Logbook

	// selection
	upper    hexagram.Trigram
	lower    hexagram.Trigram
	moving   [6]bool
	at       time.Time
	question string
	yongIdx  int

	// derived; generation counts rebuilds so late answers can be matched
	generation int
	chart      hexagram.Chart
	pillars    ganzhi.Pillars
	err        error

	// advisor state
	asking bool
	advice *advisor.Advice

	// UI components
	picker    list.Model
	input     textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	statusMsg string

	width  int
	height int
}

// NewApp creates an App showing 乾為天 at the current time.
func NewApp(opts ...AppOption) *App {
	items := make([]list.Item, 0, hexagram.TrigramCount)
	for _, t := range hexagram.Trigrams() {
		items = append(items, trigramItem{trigram: t})
	}
	picker := list.New(items, list.NewDefaultDelegate(), 0, 0)
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(false)
	picker.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "所問何事"
	input.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))

	app := &App{
		state:    stateChart,
		ctx:      context.Background(),
		advisor:  advisor.New(nil),
		calendar: ganzhi.Calendar{LateZiNextDay: true},
		clock:    time.Now,
		picker:   picker,
		input:    input,
		spinner:  spin,
		help:     help.New(),
		keys:     defaultKeyMap(),
		upper:    hexagram.Qian,
		lower:    hexagram.Qian,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if app.rng == nil {
		app.rng = rand.New(rand.NewSource(app.clock().UnixNano()))
	}
	app.at = app.clock()
	app.recompute()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	a.logbook.Info("session opened · advisor %s", a.advisor.Backend())
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetSize(max(0, msg.Width-6), max(0, msg.Height-8))
		a.help.Width = msg.Width
		return a, nil

	case adviceMsg:
		return a.handleAdvice(msg)

	case spinner.TickMsg:
		if !a.asking {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.state {
		case statePickUpper, statePickLower:
			return a.updatePicker(msg)
		case stateQuestion:
			return a.updateQuestion(msg)
		default:
			return a.updateChart(msg)
		}
	}

	switch a.state {
	case statePickUpper, statePickLower:
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return a, cmd
	case stateQuestion:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateChart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.logbook.Info("session closed")
		return a, tea.Quit
	case key.Matches(msg, a.keys.Upper):
		return a.openPicker(statePickUpper, a.upper)
	case key.Matches(msg, a.keys.Lower):
		return a.openPicker(statePickLower, a.lower)
	case key.Matches(msg, a.keys.Toggle):
		pos := int(msg.Runes[0] - '0')
		a.moving[pos-1] = !a.moving[pos-1]
		a.recompute()
	case key.Matches(msg, a.keys.Cast):
		a.cast()
	case key.Matches(msg, a.keys.Now):
		a.at = a.clock()
		a.recompute()
	case key.Matches(msg, a.keys.HourBack):
		a.shift(-time.Hour)
	case key.Matches(msg, a.keys.HourFwd):
		a.shift(time.Hour)
	case key.Matches(msg, a.keys.DayBack):
		a.shift(-24 * time.Hour)
	case key.Matches(msg, a.keys.DayFwd):
		a.shift(24 * time.Hour)
	case key.Matches(msg, a.keys.YongShen):
		a.yongIdx = (a.yongIdx + 1) % len(yongShenCycle)
		a.statusMsg = "用神 " + a.yongShen()
	case key.Matches(msg, a.keys.Question):
		a.state = stateQuestion
		a.input.SetValue(a.question)
		return a, a.input.Focus()
	case key.Matches(msg, a.keys.Ask):
		return a.ask()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

func (a *App) openPicker(state appState, current hexagram.Trigram) (tea.Model, tea.Cmd) {
	a.state = state
	a.picker.Title = "上卦"
	if state == statePickLower {
		a.picker.Title = "下卦"
	}
	a.picker.Select(int(current))
	if a.width > 0 && a.height > 0 {
		a.picker.SetSize(max(0, a.width-6), max(0, a.height-8))
	}
	return a, nil
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.state = stateChart
		return a, nil
	case "enter":
		item, ok := a.picker.SelectedItem().(trigramItem)
		if ok {
			if a.state == statePickUpper {
				a.upper = item.trigram
			} else {
				a.lower = item.trigram
			}
			a.recompute()
		}
		a.state = stateChart
		return a, nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	return a, cmd
}

func (a *App) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.input.Blur()
		a.state = stateChart
		return a, nil
	case "enter":
		a.question = strings.TrimSpace(a.input.Value())
		a.input.Blur()
		a.state = stateChart
		a.statusMsg = "問題已更新"
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) cast() {
	c := hexagram.CastCoins(a.rng)
	h := c.Hexagram()
	a.upper = h.Upper()
	a.lower = h.Lower()
	a.moving = c.Moving()
	a.recompute()
	if a.err == nil {
		a.logbook.Cast("%s %s", a.chart.Primary.Name, movingSummary(a.moving))
		a.statusMsg = "已起卦 " + a.chart.Primary.Name
	}
}

func (a *App) shift(d time.Duration) {
	a.at = a.at.Add(d)
	a.recompute()
}

// recompute rebuilds the chart and pillars from the current selection.
func (a *App) recompute() {
	pillars, err := a.calendar.Pillars(a.at)
	if err != nil {
		a.err = err
		return
	}
	chart, err := hexagram.BuildChart(hexagram.Selection{
		Upper:   a.upper.String(),
		Lower:   a.lower.String(),
		Moving:  a.moving,
		DayStem: pillars.Day.Stem.String(),
	})
	if err != nil {
		a.err = err
		return
	}
	a.err = nil
	a.pillars = pillars
	a.chart = chart
	a.advice = nil
	a.generation++
}

func (a *App) yongShen() string {
	r := yongShenCycle[a.yongIdx]
	if r == nil {
		return ""
	}
	return r.String()
}

func (a *App) ask() (tea.Model, tea.Cmd) {
	if a.asking || a.err != nil {
		return a, nil
	}
	a.asking = true
	a.statusMsg = "詢問 " + a.advisor.Backend()
	pillars := a.pillars
	facts := advisor.HexagramFacts{
		Question: a.question,
		YongShen: a.yongShen(),
		Chart:    a.chart,
		Pillars:  &pillars,
	}
	adv, ctx, gen := a.advisor, a.ctx, a.generation
	request := func() tea.Msg {
		result, err := adv.Hexagram(ctx, facts)
		return adviceMsg{gen: gen, chart: facts.Chart.Primary.Name, advice: result, err: err}
	}
	return a, tea.Batch(a.spinner.Tick, request)
}

func (a *App) handleAdvice(msg adviceMsg) (tea.Model, tea.Cmd) {
	a.asking = false
	if msg.gen != a.generation {
		a.statusMsg = "已捨棄 " + msg.chart + " 的解讀 (卦已改變)"
		a.logbook.Info("discarded advice for %s after the chart changed", msg.chart)
		return a, nil
	}
	if msg.err != nil {
		a.statusMsg = fmt.Sprintf("解讀失敗: %v", msg.err)
		a.logbook.Warn("advice failed: %v", msg.err)
		return a, nil
	}
	adv := msg.advice
	a.advice = &adv
	a.statusMsg = "解讀完成 · " + adv.Source
	if adv.Degraded {
		a.statusMsg += " (後端不可用)"
	} else if adv.Offline() {
		a.statusMsg += " (離線)"
	}
	a.logbook.Advice("%s %s %s", adv.Source, msg.chart, firstLine(adv.Text))
	return a, nil
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("☯ 六爻")

	var content string
	switch a.state {
	case statePickUpper, statePickLower:
		content = a.picker.View()
	case stateQuestion:
		content = lipgloss.JoinVertical(lipgloss.Left, "所問", a.input.View(), hint("Enter → save    Esc → cancel"))
	default:
		content = a.renderChart(width)
	}

	sections := []string{header, content}
	if panel := a.renderJournal(); panel != "" {
		sections = append(sections, panel)
	}
	status := a.statusMsg
	if a.asking {
		status = a.spinner.View() + " " + status
	}
	sections = append(sections,
		lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).MarginTop(1).Render(status),
		a.help.View(a.keys),
	)
	return strings.Join(sections, "\n")
}

func (a *App) renderChart(width int) string {
	info := []string{fmt.Sprintf("時間 %s", a.at.Format("2006-01-02 15:04 MST"))}
	if a.question != "" {
		info = append(info, "所問 "+a.question)
	}
	if y := a.yongShen(); y != "" {
		info = append(info, "用神 "+y)
	}
	lines := []string{hint(strings.Join(info, "    "))}
	if a.err != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render("⚠ "+a.err.Error()))
		return strings.Join(lines, "\n")
	}
	pillars := a.pillars
	lines = append(lines, render.Chart(a.chart, &pillars))
	if a.advice != nil {
		lines = append(lines, render.Advice(*a.advice, width))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderJournal() string {
	entries, total := a.logbook.Tail(journalLines)
	if len(entries) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("JOURNAL · %d", total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(entries, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(head + "\n" + body)
}

func hint(text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Render(text)
}

func movingSummary(moving [6]bool) string {
	var parts []string
	for i, m := range moving {
		if m {
			parts = append(parts, fmt.Sprintf("%d", i+1))
		}
	}
	if len(parts) == 0 {
		return "靜卦"
	}
	return "動 " + strings.Join(parts, ",")
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
