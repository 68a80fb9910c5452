package logger

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		l, err := New(tt.level, "json")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.want), tt.level)
		if tt.want > zapcore.DebugLevel {
			assert.False(t, l.Core().Enabled(tt.want-1), tt.level)
		}
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", Short("abc", 5))
	long := strings.Repeat("x", 150)
	assert.Equal(t, strings.Repeat("x", 100)+"...", Short(long, 100))
	assert.Equal(t, "", ShortErr(nil, 10))
	assert.Equal(t, "conn...", ShortErr(errors.New("connection refused"), 4))
}

func TestShort_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "h...", Short("héllo", 2))
	assert.Equal(t, "hé...", Short("héllo", 3))

	long := strings.Repeat("日本語", 50)
	out := Short(long, 100)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("日本語", 11)+"...", out)
}
