package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/musichub/internal/config"
	"github.com/llehouerou/musichub/internal/db"
	"github.com/llehouerou/musichub/internal/log"
)

// whereTarget is a filesystem location the application reads or writes.
type whereTarget struct {
	name string
	flag string
	path func(cfg *config.Config) (string, error)
}

var whereTargets = []whereTarget{
	{"Config", "config", func(*config.Config) (string, error) {
		return config.Paths()[0], nil
	}},
	{"Database", "database", func(cfg *config.Config) (string, error) {
		if cfg.Database != "" {
			return cfg.Database, nil
		}
		return db.Path()
	}},
	{"Downloads", "downloads", func(cfg *config.Config) (string, error) {
		return cfg.GetDownloadConfig().Directory, nil
	}},
	{"Logs", "logs", func(cfg *config.Config) (string, error) {
		if f := cfg.GetLogConfig().File; f != "" {
			return f, nil
		}
		return log.DefaultFile()
	}},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	for _, t := range whereTargets {
		whereCmd.Flags().Bool(t.flag, false, "Print only the "+t.name+" path")
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(whereTargets, func(t whereTarget, _ int) string {
		return t.flag
	})...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where musichub keeps its files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		for _, t := range whereTargets {
			if lo.Must(cmd.Flags().GetBool(t.flag)) {
				p, err := t.path(cfg)
				if err != nil {
					return err
				}
				cmd.Println(p)
				return nil
			}
		}

		heading := lipgloss.NewStyle().Bold(true).Render
		for i, t := range whereTargets {
			p, err := t.path(cfg)
			if err != nil {
				return err
			}
			cmd.Println(heading(t.name))
			cmd.Println(p)
			if i < len(whereTargets)-1 {
				cmd.Println()
			}
		}
		return nil
	},
}
