package observability_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/serdal-zonemap/internal/observability"
)

func TestNewLoggerLevel(t *testing.T) {
	cases := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.TraceLevel},
		{"nonsense", zerolog.TraceLevel},
	}
	for _, c := range cases {
		if got := observability.NewLogger("prod", c.level).GetLevel(); got != c.want {
			t.Errorf("NewLogger(prod, %q).GetLevel() = %v, want %v", c.level, got, c.want)
		}
		if got := observability.NewCLILogger(c.level).GetLevel(); got != c.want {
			t.Errorf("NewCLILogger(%q).GetLevel() = %v, want %v", c.level, got, c.want)
		}
	}
}
