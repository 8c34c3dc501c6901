package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"prod default", "prod", "", zapcore.InfoLevel, false},
		{"dev default", "dev", "", zapcore.DebugLevel, false},
		{"level override", "prod", "warn", zapcore.WarnLevel, false},
		{"unknown env", "staging", "", 0, true},
		{"bad level", "dev", "loud", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.env, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.want))
			assert.False(t, l.Core().Enabled(tt.want-1))
		})
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)

	assert.Same(t, l, FromContext(ctx, nil))
}

func TestFromContextFallback(t *testing.T) {
	fallback := zap.NewExample()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background(), nil))
}
