package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestParseLogFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    log.Formatter
		wantErr bool
	}{
		{"", log.TextFormatter, false},
		{"text", log.TextFormatter, false},
		{"JSON", log.JSONFormatter, false},
		{" logfmt ", log.LogfmtFormatter, false},
		{"xml", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLogFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLogFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.SetFormatter(log.LogfmtFormatter)

	newProgress(logger).done("Laid out 3 nodes")

	out := buf.String()
	if !strings.Contains(out, `msg="Laid out 3 nodes"`) || !strings.Contains(out, "elapsed=") {
		t.Errorf("progress output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	custom := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestExecuteJSONLogs(t *testing.T) {
	env := newTestEnv(t)
	in := env.write("chain.json", chainRecord)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if err := execute(context.Background(), c, []string{"--log-format", "json", "layout", in}); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(buf.String()), "\n")
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v: %q", err, line)
	}
	if rec["msg"] != "Laid out 2 nodes" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestExecuteRejectsLogFormat(t *testing.T) {
	newTestEnv(t)
	err := execute(context.Background(), New(io.Discard, LogInfo), []string{"--log-format", "xml", "cache", "path"})
	if err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Errorf("execute error = %v, want unknown log format", err)
	}
}
