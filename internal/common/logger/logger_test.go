package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func newBufferedLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	return &Logger{level: level, output: buf}, buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		want  []string
		drop  []string
	}{
		{LevelDebug, []string{"dbg", "inf", "wrn", "err"}, nil},
		{LevelInfo, []string{"inf", "wrn", "err"}, []string{"dbg"}},
		{LevelWarn, []string{"wrn", "err"}, []string{"dbg", "inf"}},
		{LevelError, []string{"err"}, []string{"dbg", "inf", "wrn"}},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			log, buf := newBufferedLogger(tt.level)

			log.Debug("dbg")
			log.Info("inf")
			log.Warn("wrn")
			log.Error("err")

			out := buf.String()
			for _, msg := range tt.want {
				if !strings.Contains(out, msg) {
					t.Errorf("level %s should emit %q", tt.level, msg)
				}
			}
			for _, msg := range tt.drop {
				if strings.Contains(out, msg) {
					t.Errorf("level %s should drop %q", tt.level, msg)
				}
			}
		})
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	log, buf := newBufferedLogger(LevelInfo)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Error("debug output should be suppressed at Info level")
	}

	log.SetVerbose(true)
	log.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("debug output should appear after SetVerbose")
	}
}

func TestQuietKeepsErrors(t *testing.T) {
	log, buf := newBufferedLogger(LevelInfo)
	log.SetQuiet(true)

	log.Info("chatter")
	log.Error("problem")

	out := buf.String()
	if strings.Contains(out, "chatter") {
		t.Error("quiet mode should suppress info output")
	}
	if !strings.Contains(out, "problem") {
		t.Error("quiet mode must still emit errors")
	}
}

func TestMessageFormatting(t *testing.T) {
	log, buf := newBufferedLogger(LevelInfo)

	log.Info("probing %s at %d locations", "esm_master", 3)

	if got := buf.String(); got != "probing esm_master at 3 locations\n" {
		t.Errorf("unexpected console line %q", got)
	}
}

func TestLevelString(t *testing.T) {
	for level, want := range map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	} {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestPackageLevelFunctionsUseDefault(t *testing.T) {
	once = sync.Once{}
	defaultLogger = nil

	buf := new(bytes.Buffer)
	once.Do(func() {
		defaultLogger = &Logger{level: LevelDebug, output: buf}
	})

	Debug("one")
	Info("two")
	Warn("three")
	Error("four")

	out := buf.String()
	for _, want := range []string{"one", "two", "three", "four"} {
		if !strings.Contains(out, want) {
			t.Errorf("package-level logging should emit %q", want)
		}
	}
}
