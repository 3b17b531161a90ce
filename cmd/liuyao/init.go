package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/liuyao/internal/config"
)

func initCmd(flags *globalFlags) *cobra.Command {
	var backend string

	c := &cobra.Command{
		Use:   "init",
		Short: "Create .liuyao/config.yaml with commented defaults",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := flags.projectDir()
			if err != nil {
				return err
			}
			if err := config.InitProjectDir(dir); err != nil {
				return fmt.Errorf("init %s: %w", dir, err)
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			if backend != "" {
				if err := cfg.SetBackend(backend); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (advisor: %s", cfg.ProjectConfigPath(), cfg.Project.Advisor.Backend)
			if cfg.Project.Advisor.Backend != config.BackendOffline {
				fmt.Fprintf(cmd.OutOrStdout(), ", key from $%s", cfg.Project.Advisor.APIKeyEnv)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ")")
			return nil
		},
	}
	c.Flags().StringVar(&backend, "backend", "", "advisor backend: offline, gemini or openai")
	return c
}
