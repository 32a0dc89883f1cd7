package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		debug     bool
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{name: "default", wantLevel: zapcore.InfoLevel},
		{name: "warn", level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "debug flag lowers level", level: "error", debug: true, wantLevel: zapcore.DebugLevel},
		{name: "bad level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.debug)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
		})
	}
}
