package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/pipeline"
	"github.com/matheuskafuri/newsvoice/internal/speech"
	"github.com/spf13/cobra"
)

var (
	flagLang    string
	flagJSON    bool
	flagAudio   bool
	flagRefresh bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <company>",
	Short: "Analyze news coverage for a company",
	Long: `Fetch recent news about a company, score and compare the coverage,
and print the report followed by a spoken-style summary.

--lang accepts a menu key (1-6), a code (te, hi, en, ml, ta, kn) or a name.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()

		choice := flagLang
		if choice == "" {
			choice = e.cfg.GetLanguage()
		}
		lang, err := speech.Lookup(choice)
		if err != nil {
			return err
		}

		p, err := e.pipeline()
		if err != nil {
			return err
		}
		res, err := p.Run(cmd.Context(), args[0], pipeline.RunOpts{Refresh: flagRefresh})
		if err != nil {
			return fmt.Errorf("failed to retrieve news articles: %w", err)
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(res.Digest)
		}

		printReport(out, res.Digest)
		fmt.Fprintf(out, "\n%s summary text:\n%s\n", lang.Name, speech.Summary(res.Digest, lang))

		if flagAudio {
			fmt.Fprintf(out, "\nGenerating %s speech...\n", lang.Name)
			speechOut, err := speech.Render(cmd.Context(), speech.NewGoogleTTS(), res.Digest, lang, e.cfg.GetAudioDir())
			if err != nil {
				return fmt.Errorf("generating speech: %w", err)
			}
			fmt.Fprintf(out, "\n%s speech saved to: %s\n", lang.Name, speechOut.AudioPath)
			fmt.Fprintln(out, "You can play this file using any media player.")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagLang, "lang", "l", "", "summary language (default from config)")
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "print the processed digest as JSON")
	analyzeCmd.Flags().BoolVar(&flagAudio, "audio", false, "save the spoken summary as MP3")
	analyzeCmd.Flags().BoolVar(&flagRefresh, "refresh", false, "ignore stored results and fetch again")
}

func printReport(w io.Writer, d *analysis.Digest) {
	fmt.Fprintf(w, "\nAnalysis Results for %s:\n\n", d.Company)

	fmt.Fprintln(w, "News Articles:")
	for i, a := range d.Articles {
		fmt.Fprintf(w, "%d. %s\n", i+1, a.Title)
		fmt.Fprintf(w, "   Summary: %s\n", a.Summary)
		fmt.Fprintf(w, "   Sentiment: %s\n", a.Sentiment)
		fmt.Fprintf(w, "   Topics: %s\n", strings.Join(a.Topics, ", "))
		fmt.Fprintln(w, "---")
	}

	r := d.Report
	fmt.Fprintln(w, "\nSentiment Distribution:")
	fmt.Fprintf(w, "   Positive: %d\n", r.Distribution.Positive)
	fmt.Fprintf(w, "   Negative: %d\n", r.Distribution.Negative)
	fmt.Fprintf(w, "   Neutral: %d\n", r.Distribution.Neutral)

	fmt.Fprintln(w, "\nCoverage Differences:")
	for _, c := range r.CoverageDifferences {
		fmt.Fprintf(w, "   - %s\n", c.Comparison)
		fmt.Fprintf(w, "     Impact: %s\n", c.Impact)
	}

	fmt.Fprintln(w, "\nTopic Overlap:")
	if len(r.TopicOverlap.CommonTopics) > 0 {
		fmt.Fprintf(w, "   Common Topics: %s\n", strings.Join(r.TopicOverlap.CommonTopics, ", "))
	} else {
		fmt.Fprintln(w, "   Common Topics: None")
	}

	fmt.Fprintln(w, "\nFinal Sentiment Analysis:")
	fmt.Fprintf(w, "   %s\n", d.FinalSentiment)
}
