package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagPruneOlderThan string
	flagHistoryLimit   int
	flagSentiment      string
	flagSearch         string
	flagSince          string
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old runs from the local cache",
	Long: `Delete stored analysis runs older than the retention period and reclaim disk space.

Uses the retention value from config (default: 30d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, _, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDays(flagPruneOlderThan)
			if err != nil {
				return fmt.Errorf("invalid --older-than value: %w", err)
			}
			retention = d
		}

		deleted, err := db.Prune(retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d run(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, path, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		s, err := db.Stats(path)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", path)
		fmt.Printf("Runs: %d (%d companies)\n", s.Runs, s.Companies)
		fmt.Printf("Articles: %d\n", s.Articles)
		if s.Runs > 0 {
			fmt.Printf("Oldest: %s\n", s.Oldest.Local().Format(time.DateTime))
			fmt.Printf("Newest: %s\n", s.Newest.Local().Format(time.DateTime))
		}
		fmt.Printf("Size: %s\n", formatBytes(s.SizeBytes))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.Runs(flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs yet.")
			return nil
		}
		printHistory(cmd.OutOrStdout(), runs)
		return nil
	},
}

var articlesCmd = &cobra.Command{
	Use:   "articles <company>",
	Short: "Search stored articles for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cache.QueryOpts{Company: args[0], Search: flagSearch}
		if flagSentiment != "" {
			s, err := analysis.ParseSentiment(flagSentiment)
			if err != nil {
				return err
			}
			opts.Sentiment = s
		}
		if flagSince != "" {
			d, err := config.ParseDays(flagSince)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		db, _, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		articles, err := db.GetArticles(opts)
		if err != nil {
			return fmt.Errorf("querying articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No stored articles match.")
			return nil
		}
		for _, a := range articles {
			fmt.Printf("[%s] %s\n", a.Sentiment, a.Title)
			if len(a.Topics) > 0 {
				fmt.Printf("   Topics: %s\n", strings.Join(a.Topics, ", "))
			}
			if a.Link != "" {
				fmt.Printf("   %s\n", a.Link)
			}
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "number of runs to show")
	articlesCmd.Flags().StringVar(&flagSentiment, "sentiment", "", "only Positive, Negative or Neutral articles")
	articlesCmd.Flags().StringVar(&flagSearch, "search", "", "match title or summary text")
	articlesCmd.Flags().StringVar(&flagSince, "since", "", "only runs from the last duration (e.g., 7d, 24h)")
}

func printHistory(w io.Writer, runs []cache.Run) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tWHEN\tARTICLES\t+/-/=\tVERDICT")
	for _, r := range runs {
		dist := r.Digest.Report.Distribution
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d/%d/%d\t%s\n",
			r.ID, r.Company, r.CreatedAt.Local().Format("Jan 2 15:04"), len(r.Digest.Articles),
			dist.Positive, dist.Negative, dist.Neutral, verdictHead(r.Digest.FinalSentiment))
	}
	tw.Flush()
}

// verdictHead keeps the first sentence of a verdict.
func verdictHead(v string) string {
	if i := strings.Index(v, ". "); i >= 0 {
		return v[:i+1]
	}
	return v
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
