package cli

import (
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/keiprogram/English-Test-App/internal/config"
	"github.com/keiprogram/English-Test-App/internal/logger"
	"github.com/keiprogram/English-Test-App/internal/tui"
)

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Take the vocabulary quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			// the quiz owns the terminal; only errors reach stderr
			log, err := logger.New(cfg.Log.Env, "error")
			if err != nil {
				return err
			}

			rt, err := newRuntime(ctx, cfg, log, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			if count == 0 {
				count = cfg.Quiz.QuestionCount
			}
			return tui.Run(ctx, rt.service, localPlayerID(), count)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "initial question count (1-100)")
	return cmd
}

func localPlayerID() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return "local:" + u.Username
	}
	if h, err := os.Hostname(); err == nil {
		return "local:" + h
	}
	return "local"
}
