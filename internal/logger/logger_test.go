package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitWriter_Levels(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	Debug("hidden", "k", 1)
	Info("feed loaded", "source", "bbc", "items", 12)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "source=bbc") || !strings.Contains(out, "items=12") {
		t.Errorf("missing attributes: %q", out)
	}

	buf.Reset()
	InitWriter(&buf, true)
	Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, false)

	With("mode", "search").Warn("slow")
	if !strings.Contains(buf.String(), "mode=search") {
		t.Errorf("child attrs missing: %q", buf.String())
	}
}
