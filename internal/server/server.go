// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/matheuskafuri/newsvoice/internal/analysis"
	"github.com/matheuskafuri/newsvoice/internal/cache"
	"github.com/matheuskafuri/newsvoice/internal/feed"
	"github.com/matheuskafuri/newsvoice/internal/pipeline"
	"github.com/matheuskafuri/newsvoice/internal/speech"
	"github.com/sirupsen/logrus"
)

type Analyzer interface {
	Run(ctx context.Context, company string, opts pipeline.RunOpts) (*pipeline.Result, error)
}

type History interface {
	Runs(limit int) ([]cache.Run, error)
}

type Server struct {
	analyzer Analyzer
	history  History // optional
	synth    speech.Synthesizer
	audioDir string
	log      logrus.FieldLogger
}

func New(analyzer Analyzer, history History, synth speech.Synthesizer, audioDir string, log logrus.FieldLogger) *Server {
	return &Server{analyzer: analyzer, history: history, synth: synth, audioDir: audioDir, log: log}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/news", s.handleNews)
	api.POST("/speech", s.handleSpeech)
	api.GET("/languages", s.handleLanguages)
	api.GET("/history", s.handleHistory)
	api.GET("/audio/:code", s.handleAudio)
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an ID (kept from the client when sent)
// and logs it once the handler returns.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Next()
		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"elapsed":    time.Since(start).Round(time.Millisecond),
		}).Debug("request")
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

type newsRequest struct {
	CompanyName string `json:"company_name"`
	Refresh     bool   `json:"refresh"`
}

func (s *Server) handleNews(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		fail(c, http.StatusBadRequest, "Company name is required")
		return
	}

	res, err := s.analyzer.Run(c.Request.Context(), req.CompanyName, pipeline.RunOpts{Refresh: req.Refresh})
	switch {
	case errors.Is(err, feed.ErrNoArticles):
		fail(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.log.WithError(err).WithField("company", req.CompanyName).Error("analysis failed")
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, res.Digest)
}

type speechRequest struct {
	ProcessedData  *analysis.Digest `json:"processed_data"`
	LanguageChoice string           `json:"language_choice"`
}

func (s *Server) handleSpeech(c *gin.Context) {
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.ProcessedData == nil || req.ProcessedData.Company == "" {
		fail(c, http.StatusBadRequest, "Processed data is required")
		return
	}
	choice := req.LanguageChoice
	if choice == "" {
		choice = speech.DefaultLanguage.Key
	}
	lang, err := speech.Lookup(choice)
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := speech.Render(c.Request.Context(), s.synth, req.ProcessedData, lang, s.audioDir)
	if err != nil {
		s.log.WithError(err).WithField("language", lang.Code).Error("speech failed")
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, speech.Languages())
}

type historyEntry struct {
	ID             int64                 `json:"id"`
	Company        string                `json:"company"`
	CreatedAt      time.Time             `json:"created_at"`
	Articles       int                   `json:"articles"`
	Distribution   analysis.Distribution `json:"distribution"`
	FinalSentiment string                `json:"final_sentiment"`
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusOK, []historyEntry{})
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.history.Runs(limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		out = append(out, historyEntry{
			ID:             r.ID,
			Company:        r.Company,
			CreatedAt:      r.CreatedAt,
			Articles:       len(r.Digest.Articles),
			Distribution:   r.Digest.Report.Distribution,
			FinalSentiment: r.Digest.FinalSentiment,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleAudio(c *gin.Context) {
	lang, err := speech.Lookup(c.Param("code"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	path := speech.AudioFile(s.audioDir, lang.Code)
	if _, err := os.Stat(path); err != nil {
		fail(c, http.StatusNotFound, "no audio for "+lang.Name)
		return
	}
	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}
