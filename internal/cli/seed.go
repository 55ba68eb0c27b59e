package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pgstore "github.com/keiprogram/English-Test-App/internal/infra/postgres"
	"github.com/keiprogram/English-Test-App/internal/infra/xlsx"
)

// NewSeedCmd imports a spreadsheet into the words table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import an xlsx word list (No. / 単語 / 語の意味) into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfigAndLogger(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if file == "" {
				file = cfg.Vocabulary.Path
			}
			entries, err := xlsx.NewLoader(file, sheet, log).LoadVocabulary(ctx)
			if err != nil {
				return err
			}

			if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
				return err
			}
			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := pgstore.NewWordWriter(db).Upsert(ctx, entries)
			if err != nil {
				return err
			}
			log.Info("words imported", zap.String("file", file), zap.Int("rows", n))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "xlsx file to import (defaults to vocabulary.path)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "sheet name (defaults to the first sheet)")
	return cmd
}
