package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestConsoleLogger(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	log := NewWriterLogger(&buf, false)

	log.Info("downloading %s", "log")
	log.Error("failed: %d", 404)
	log.Debug("hidden")

	want := "[INFO] downloading log\n[ERROR] failed: 404\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestConsoleLogger_Verbose(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	NewWriterLogger(&buf, true).Debug("cache hit %s", "/tmp/x.log")

	if !strings.Contains(buf.String(), "[DEBUG] cache hit /tmp/x.log") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSilentLogger(t *testing.T) {
	var log Logger = NewSilentLogger()
	log.Info("nothing")
	log.Error("nothing")
	log.Debug("nothing")
}
