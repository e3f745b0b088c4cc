package logger_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := logger.New(true, "warn")
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zap.InfoLevel))
	assert.True(t, l.Core().Enabled(zap.WarnLevel))
}

func TestNewBadLevel(t *testing.T) {
	_, err := logger.New(false, "loud")
	assert.Error(t, err)
}
