package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/liuyao/internal/ganzhi"
	"github.com/kingrea/liuyao/internal/tui"
)

func tuiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive chart editor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			app := tui.NewApp(
				tui.WithContext(ctx),
				tui.WithAdvisor(rt.advisor(ctx)),
				tui.WithCalendar(ganzhi.Calendar{LateZiNextDay: rt.cfg.LateZiNextDay()}),
				tui.WithClock(time.Now),
				tui.WithLogbook(rt.journal),
			)
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}
