// Package advisor turns chart and constitution facts into natural-language
// advice through a pluggable text-generation backend. Backend failures never
// surface as errors: they degrade to a labeled offline text.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kingrea/liuyao/internal/annotate"
)

// SourceOffline marks advice produced locally.
const SourceOffline = "offline"

// Kind distinguishes the two consultations.
type Kind string

const (
	KindHexagram     Kind = "hexagram"
	KindConstitution Kind = "constitution"
)

// ErrEmptyResponse is returned by backends that answered with no text.
var ErrEmptyResponse = errors.New("advisor: empty response")

// Generator is a text-generation backend.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend in Advice.Source.
	Name() string
	// Model is the backend model identifier, if any.
	Model() string
}

// Logger matches the subset of logging.Logger the advisor needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Advice is one generated (or offline) answer.
type Advice struct {
	ID          string                `json:"id"`
	Kind        Kind                  `json:"kind"`
	Source      string                `json:"source"`
	Model       string                `json:"model,omitempty"`
	Degraded    bool                  `json:"degraded"`
	Reason      string                `json:"reason,omitempty"`
	Text        string                `json:"text"`
	Annotations []annotate.Annotation `json:"annotations,omitempty"`
	Pattern     annotate.Annotation   `json:"pattern"`
	GeneratedAt time.Time             `json:"generated_at"`
	ElapsedMS   int64                 `json:"elapsed_ms"`
}

// Offline reports whether the text came from the local fallback.
func (a Advice) Offline() bool { return a.Source == SourceOffline }

// Consultation pairs hexagram and constitution advice computed together.
type Consultation struct {
	Hexagram     Advice `json:"hexagram"`
	Constitution Advice `json:"constitution"`
}

// Advisor routes prompts to a Generator and falls back to offline text.
type Advisor struct {
	gen     Generator
	logger  Logger
	clock   func() time.Time
	timeout time.Duration
}

// Option customizes advisor construction.
type Option func(*Advisor)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(a *Advisor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(a *Advisor) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithTimeout bounds each backend call. Zero leaves calls bounded only by
// the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(a *Advisor) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// New prepares an advisor. A nil generator means offline only.
func New(gen Generator, opts ...Option) *Advisor {
	a := &Advisor{
		gen:    gen,
		logger: nopLogger{},
		clock:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Backend names the configured source, "offline" when there is none.
func (a *Advisor) Backend() string {
	if a == nil || a.gen == nil {
		return SourceOffline
	}
	return a.gen.Name()
}

// Hexagram produces advice for a chart. The error is non-nil only when the
// facts themselves are unusable.
func (a *Advisor) Hexagram(ctx context.Context, f HexagramFacts) (Advice, error) {
	if f.Chart.Primary.Name == "" {
		return Advice{}, fmt.Errorf("advisor: chart has no primary hexagram")
	}
	prompt, err := HexagramPrompt(f)
	if err != nil {
		return Advice{}, err
	}
	return a.run(ctx, KindHexagram, prompt, func() string { return OfflineHexagramText(f) }), nil
}

// Constitution produces advice for a five-element reading.
func (a *Advisor) Constitution(ctx context.Context, f ConstitutionFacts) (Advice, error) {
	if err := f.Reading.Scores.Validate(); err != nil {
		return Advice{}, fmt.Errorf("advisor: %w", err)
	}
	prompt, err := ConstitutionPrompt(f)
	if err != nil {
		return Advice{}, err
	}
	return a.run(ctx, KindConstitution, prompt, func() string { return OfflineConstitutionText(f) }), nil
}

// Consult requests both kinds of advice concurrently.
func (a *Advisor) Consult(ctx context.Context, hf HexagramFacts, cf ConstitutionFacts) (Consultation, error) {
	var out Consultation
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		adv, err := a.Hexagram(gctx, hf)
		out.Hexagram = adv
		return err
	})
	g.Go(func() error {
		adv, err := a.Constitution(gctx, cf)
		out.Constitution = adv
		return err
	})
	if err := g.Wait(); err != nil {
		return Consultation{}, err
	}
	return out, nil
}

func (a *Advisor) run(ctx context.Context, kind Kind, prompt string, fallback func() string) Advice {
	start := a.clock()
	adv := Advice{
		ID:          uuid.NewString(),
		Kind:        kind,
		Source:      SourceOffline,
		GeneratedAt: start,
	}
	if a.gen == nil {
		adv.Text = fallback()
	} else {
		text, err := a.generate(ctx, prompt)
		if err != nil {
			a.logger.Printf("advisor: %s backend %s failed, using offline text: %v", kind, a.gen.Name(), err)
			adv.Degraded = true
			adv.Reason = err.Error()
			adv.Text = fallback()
		} else {
			adv.Source = a.gen.Name()
			adv.Model = a.gen.Model()
			adv.Text = text
		}
	}
	adv.ElapsedMS = a.clock().Sub(start).Milliseconds()
	// Local text lists every pattern of its element; only backend answers
	// are annotated.
	if adv.Offline() {
		adv.Pattern = annotate.None()
		return adv
	}
	adv.Pattern = annotate.Classify(adv.Text)
	adv.Annotations = annotate.All(adv.Text)
	a.logger.Printf("advisor: %s answered by %s in %dms (%s)", kind, adv.Source, adv.ElapsedMS, adv.Pattern.Pattern)
	return adv
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
