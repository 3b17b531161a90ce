package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/liuyao/internal/advisor"
	"github.com/kingrea/liuyao/internal/render"
	"github.com/kingrea/liuyao/internal/wuxing"
)

type tcmOutput struct {
	Reading  wuxing.Reading  `json:"reading"`
	Advice   wuxing.Advice   `json:"advice"`
	Analysis *advisor.Advice `json:"analysis,omitempty"`
}

func tcmCmd(flags *globalFlags) *cobra.Command {
	var scores wuxing.Scores
	var symptoms []string
	var asJSON, ask bool

	c := &cobra.Command{
		Use:   "tcm",
		Short: "Read a five-element constitution from 0-10 scores",
		Example: `  liuyao tcm --wood 9 --fire 5 --earth 5 --metal 5 --water 2
  liuyao tcm --wood 3 --fire 9 --symptom 口乾 --symptom 失眠 --ask`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.close()

			reading, err := wuxing.Analyze(scores)
			if err != nil {
				return err
			}
			local, err := wuxing.AdviceFor(reading.Dominant)
			if err != nil {
				return err
			}
			out := tcmOutput{Reading: reading, Advice: local}
			if ask {
				adv, err := rt.advisor(cmd.Context()).Constitution(cmd.Context(), advisor.ConstitutionFacts{
					Reading:  reading,
					Symptoms: symptoms,
				})
				if err != nil {
					return err
				}
				rt.journal.Advice("%s %s %.1f", adv.Source, local.Constitution, reading.BalanceScore)
				out.Analysis = &adv
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(out)
			}
			fmt.Fprintln(w, render.Reading(reading))
			fmt.Fprintf(w, "%s · %s\n", local.Constitution, local.Departments)
			if out.Analysis != nil {
				fmt.Fprintln(w, render.Advice(*out.Analysis, 80))
			}
			return nil
		},
	}
	c.Flags().IntVar(&scores.Wood, "wood", 5, "木 score 0-10")
	c.Flags().IntVar(&scores.Fire, "fire", 5, "火 score 0-10")
	c.Flags().IntVar(&scores.Earth, "earth", 5, "土 score 0-10")
	c.Flags().IntVar(&scores.Metal, "metal", 5, "金 score 0-10")
	c.Flags().IntVar(&scores.Water, "water", 5, "水 score 0-10")
	c.Flags().StringArrayVar(&symptoms, "symptom", nil, "symptom passed to the advisor (repeatable)")
	c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a drawing")
	c.Flags().BoolVar(&ask, "ask", false, "ask the configured advisor about the reading")
	return c
}
