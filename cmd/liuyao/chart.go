package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/hexagram"
	"github.com/kingrea/liuyao/internal/render"
	"github.com/kingrea/liuyao/internal/wuxing"
)

type chartOptions struct {
	upper    string
	lower    string
	moving   string
	at       string
	dayStem  string
	cast     bool
	seed     int64
	asJSON   bool
	ask      bool
	question string
	yongShen string
	scores   wuxing.Scores
	symptoms []string
}

var scoreFlags = []string{"wood", "fire", "earth", "metal", "water"}

type chartOutput struct {
	Chart        hexagram.Chart  `json:"chart"`
	Pillars      ganzhi.Pillars  `json:"pillars"`
	Analysis     *advisor.Advice `json:"analysis,omitempty"`
	Reading      *wuxing.Reading `json:"reading,omitempty"`
	Constitution *advisor.Advice `json:"constitution,omitempty"`
}

func chartCmd(flags *globalFlags) *cobra.Command {
	opts := &chartOptions{}
	c := &cobra.Command{
		Use:   "chart",
		Short: "Print a six-yao chart for two trigrams or a coin cast",
		Example: `  liuyao chart --upper 乾 --lower 坤 --moving 1,4 --time 2024-02-10T09:30
  liuyao chart --cast --ask --question 工作 --yong-shen 官鬼
  liuyao chart --cast --ask --fire 9 --wood 3 --symptom 失眠`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.close()

			at := time.Now()
			if opts.at != "" {
				if at, err = ganzhi.ParseTime(opts.at, time.Local); err != nil {
					return err
				}
			}
			pillars, err := ganzhi.Calendar{LateZiNextDay: rt.cfg.LateZiNextDay()}.Pillars(at)
			if err != nil {
				return err
			}
			sel, err := opts.selection(pillars)
			if err != nil {
				return err
			}
			chart, err := hexagram.BuildChart(sel)
			if err != nil {
				return err
			}
			rt.journal.Cast("%s %s %s", pillars.Day, chart.Primary.Name, opts.moving)

			out := chartOutput{Chart: chart, Pillars: pillars}
			if opts.ask {
				hf := advisor.HexagramFacts{
					Question: opts.question,
					YongShen: opts.yongShen,
					Chart:    chart,
					Pillars:  &pillars,
				}
				if err := opts.consult(cmd, rt, hf, &out); err != nil {
					return err
				}
			}
			return printChart(cmd.OutOrStdout(), out, opts.asJSON)
		},
	}
	c.Flags().StringVar(&opts.upper, "upper", "", "upper trigram (乾, 天, qian, heaven ...)")
	c.Flags().StringVar(&opts.lower, "lower", "", "lower trigram")
	c.Flags().StringVar(&opts.moving, "moving", "", "comma separated moving lines, 1 = bottom")
	c.Flags().StringVar(&opts.at, "time", "", "moment of the reading (default now)")
	c.Flags().StringVar(&opts.dayStem, "day-stem", "", "override the day stem used for the six spirits")
	c.Flags().BoolVar(&opts.cast, "cast", false, "toss three coins per line instead of naming trigrams")
	c.Flags().Int64Var(&opts.seed, "seed", 0, "coin seed for --cast (default time based)")
	c.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a drawing")
	c.Flags().BoolVar(&opts.ask, "ask", false, "ask the configured advisor about the chart")
	c.Flags().StringVar(&opts.question, "question", "", "question passed to the advisor")
	c.Flags().StringVar(&opts.yongShen, "yong-shen", "", "用神 relative passed to the advisor (父母, 官鬼 ...)")
	c.Flags().IntVar(&opts.scores.Wood, "wood", 5, "木 score 0-10; any score flag adds a constitution reading to --ask")
	c.Flags().IntVar(&opts.scores.Fire, "fire", 5, "火 score 0-10")
	c.Flags().IntVar(&opts.scores.Earth, "earth", 5, "土 score 0-10")
	c.Flags().IntVar(&opts.scores.Metal, "metal", 5, "金 score 0-10")
	c.Flags().IntVar(&opts.scores.Water, "water", 5, "水 score 0-10")
	c.Flags().StringArrayVar(&opts.symptoms, "symptom", nil, "symptom passed with the constitution reading (repeatable)")
	c.MarkFlagsRequiredTogether("upper", "lower")
	c.MarkFlagsMutuallyExclusive("cast", "upper")
	c.MarkFlagsMutuallyExclusive("cast", "moving")
	return c
}

// consult asks about the chart alone, or about the chart and a constitution
// reading together when any score flag was given.
func (o *chartOptions) consult(cmd *cobra.Command, rt *runtime, hf advisor.HexagramFacts, out *chartOutput) error {
	ctx := cmd.Context()
	if !o.withConstitution(cmd) {
		adv, err := rt.advisor(ctx).Hexagram(ctx, hf)
		if err != nil {
			return err
		}
		rt.journal.Advice("%s %s", adv.Source, hf.Chart.Primary.Name)
		out.Analysis = &adv
		return nil
	}
	reading, err := wuxing.Analyze(o.scores)
	if err != nil {
		return err
	}
	both, err := rt.advisor(ctx).Consult(ctx, hf, advisor.ConstitutionFacts{Reading: reading, Symptoms: o.symptoms})
	if err != nil {
		return err
	}
	rt.journal.Advice("%s %s · %s %.1f", both.Hexagram.Source, hf.Chart.Primary.Name, reading.Dominant, reading.BalanceScore)
	out.Analysis = &both.Hexagram
	out.Reading = &reading
	out.Constitution = &both.Constitution
	return nil
}

func (o *chartOptions) withConstitution(cmd *cobra.Command) bool {
	if len(o.symptoms) > 0 {
		return true
	}
	for _, name := range scoreFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func (o *chartOptions) selection(pillars ganzhi.Pillars) (hexagram.Selection, error) {
	sel := hexagram.Selection{DayStem: pillars.Day.Stem.String()}
	if stem := strings.TrimSpace(o.dayStem); stem != "" {
		sel.DayStem = stem
	}
	if o.cast {
		seed := o.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		c := hexagram.CastCoins(rand.New(rand.NewSource(seed)))
		h := c.Hexagram()
		sel.Upper, sel.Lower, sel.Moving = h.Upper().String(), h.Lower().String(), c.Moving()
		return sel, nil
	}
	if o.upper == "" || o.lower == "" {
		return sel, fmt.Errorf("either --upper and --lower or --cast is required")
	}
	moving, err := parseMoving(o.moving)
	if err != nil {
		return sel, err
	}
	sel.Upper, sel.Lower, sel.Moving = o.upper, o.lower, moving
	return sel, nil
}

// parseMoving reads "1,4" into line flags.
func parseMoving(raw string) ([6]bool, error) {
	var moving [6]bool
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 6 {
			return moving, fmt.Errorf("moving line %q must be 1-6", part)
		}
		moving[n-1] = true
	}
	return moving, nil
}

func printChart(w io.Writer, out chartOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(out)
	}
	fmt.Fprintln(w, render.Chart(out.Chart, &out.Pillars))
	if out.Analysis != nil {
		fmt.Fprintln(w, render.Advice(*out.Analysis, 80))
	}
	if out.Reading != nil {
		fmt.Fprintln(w, render.Reading(*out.Reading))
	}
	if out.Constitution != nil {
		fmt.Fprintln(w, render.Advice(*out.Constitution, 80))
	}
	return nil
}
