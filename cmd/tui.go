package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/speech"
	"github.com/matheuskafuri/newsvoice/internal/tui"
	"github.com/matheuskafuri/newsvoice/internal/update"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	p, err := e.pipeline()
	if err != nil {
		return err
	}

	// Prune quietly before launching
	if n, err := e.db.Prune(e.cfg.RetentionDuration()); err == nil && n > 0 {
		e.log.WithField("runs", n).Info("pruned old runs")
	}

	lang, err := speech.Lookup(e.cfg.GetLanguage())
	if err != nil {
		return fmt.Errorf("config language: %w", err)
	}

	opts := tui.RunOpts{
		Analyzer: p,
		History:  e.db,
		Synth:    speech.NewGoogleTTS(),
		AudioDir: e.cfg.GetAudioDir(),
		Language: lang,
	}
	if len(args) == 1 {
		opts.Company = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	if res := update.NewChecker().Check(ctx, version); res != nil {
		opts.UpdateVersion = res.LatestVersion
	}

	return tui.Run(opts)
}
