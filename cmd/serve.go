package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/matheuskafuri/newsvoice/internal/server"
	"github.com/matheuskafuri/newsvoice/internal/speech"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis and speech API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.pipeline()
		if err != nil {
			return err
		}

		if !flagVerbose {
			gin.SetMode(gin.ReleaseMode)
		}

		addr := flagAddr
		if addr == "" {
			addr = e.cfg.GetServerAddr()
		}
		srv := server.New(p, e.db, speech.NewGoogleTTS(), e.cfg.GetAudioDir(), e.log)
		return srv.Serve(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (default from config, :5000)")
}
