package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevelFallback(t *testing.T) {
	log, err := New("nonsense", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level fallback, got %s", log.GetLevel())
	}

	log, err = New("debug", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %s", log.GetLevel())
	}
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "newsvoice.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.WithField("company", "Tesla").Info("analysis done")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "company=Tesla") {
		t.Errorf("expected structured field in log, got %q", data)
	}
}

func TestToFile(t *testing.T) {
	log, err := ToFile("warn", "")
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	log.Warn("dropped") // must not reach stderr

	path := filepath.Join(t.TempDir(), "tui.log")
	log, err = ToFile("warn", path)
	if err != nil {
		t.Fatalf("ToFile: %v", err)
	}
	log.Info("below level")
	log.Warn("source failed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if strings.Contains(string(data), "below level") || !strings.Contains(string(data), "source failed") {
		t.Errorf("unexpected log contents %q", data)
	}
}
