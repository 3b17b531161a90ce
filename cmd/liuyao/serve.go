package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/liuyao/internal/server"
)

const shutdownGrace = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	var host string
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart and analysis JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := flags.open()
			if err != nil {
				return err
			}
			defer rt.close()

			settings := server.SettingsFromConfig(rt.cfg)
			if cmd.Flags().Changed("host") {
				settings.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}

			ctx := cmd.Context()
			srv := server.NewServer(settings,
				server.WithAdvisor(rt.advisor(ctx)),
				server.WithLogger(rt.log),
			)
			// In-flight requests outlive the signal until Shutdown drains them.
			if err := srv.Start(context.WithoutCancel(ctx)); err != nil {
				return err
			}
			rt.log.Zap().Info("api listening",
				zap.String("addr", srv.Addr()),
				zap.String("allow_origin", settings.AllowOrigin),
				zap.Bool("late_zi_next_day", settings.LateZiNextDay),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "liuyao API listening on %s\n", srv.BaseURL())

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			rt.log.Printf("api stopped")
			return nil
		},
	}

	c.Flags().StringVar(&host, "host", "", "bind host (overrides config and LIUYAO_HOST)")
	c.Flags().IntVar(&port, "port", 0, "bind port (overrides config and LIUYAO_PORT)")
	return c
}
