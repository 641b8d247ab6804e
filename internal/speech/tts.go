package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matheuskafuri/newsvoice/internal/analysis"
)

// Synthesizer turns text into MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, code string) ([]byte, error)
}

const (
	googleTTSURL = "https://translate.google.com/translate_tts"
	maxChunk     = 100
)

// GoogleTTS uses the public Google Translate speech endpoint, which accepts
// at most maxChunk characters per request.
type GoogleTTS struct {
	BaseURL string
	Client  *http.Client
}

func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{
		BaseURL: googleTTSURL,
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

func (g *GoogleTTS) Synthesize(ctx context.Context, text, code string) ([]byte, error) {
	chunks := splitText(text, maxChunk)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	var audio bytes.Buffer
	for i, chunk := range chunks {
		data, err := g.fetch(ctx, chunk, code, i, len(chunks))
		if err != nil {
			return nil, err
		}
		audio.Write(data)
	}
	return audio.Bytes(), nil
}

func (g *GoogleTTS) fetch(ctx context.Context, chunk, code string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", code)
	q.Set("q", chunk)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(len([]rune(chunk))))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

// splitText breaks text into pieces of at most n runes on word boundaries.
// Words longer than n are split hard.
func splitText(text string, n int) []string {
	var (
		chunks []string
		cur    []rune
	)
	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, string(cur))
			cur = cur[:0]
		}
	}
	for _, w := range strings.Fields(text) {
		r := []rune(w)
		for len(r) > n {
			flush()
			chunks = append(chunks, string(r[:n]))
			r = r[n:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, r...)
		case len(cur)+1+len(r) <= n:
			cur = append(cur, ' ')
			cur = append(cur, r...)
		default:
			flush()
			cur = append(cur, r...)
		}
	}
	flush()
	return chunks
}

// AudioFile is the path SaveAudio writes for a language code.
func AudioFile(dir, code string) string {
	return filepath.Join(dir, "speech_"+code+".mp3")
}

// SaveAudio synthesizes text and writes it to dir/speech_<code>.mp3.
func SaveAudio(ctx context.Context, s Synthesizer, text, code, dir string) (string, error) {
	audio, err := s.Synthesize(ctx, text, code)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating audio dir: %w", err)
	}
	path := AudioFile(dir, code)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	return path, nil
}

// Output is a rendered spoken summary.
type Output struct {
	AudioPath string `json:"audio_path"`
	Text      string `json:"summary_text"`
	Language  string `json:"language"`
}

// Render builds the localized summary of d and saves its audio under dir.
func Render(ctx context.Context, s Synthesizer, d *analysis.Digest, lang Language, dir string) (*Output, error) {
	text := Summary(d, lang)
	path, err := SaveAudio(ctx, s, text, lang.Code, dir)
	if err != nil {
		return nil, err
	}
	return &Output{AudioPath: path, Text: text, Language: lang.Name}, nil
}
