package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print statistics over AWP-attributed articles",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	application, _, closer, err := loadApplication()
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closer.Close()

	stats, err := application.Stats(cmd.Context())
	if err != nil {
		logError("statistics: %v", err)
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatStats(stats))
	return nil
}

func formatStats(s domain.Stats) string {
	return fmt.Sprintf("Number of articles: %s\nAverage word count: %s\nTotal tokens: %s\n",
		humanize.Comma(s.Articles),
		humanize.CommafWithDigits(s.AvgWordCount, 0),
		humanize.Comma(s.TotalTokens),
	)
}
