package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediline-service/internal/pkg/constvars"
)

func TestGenerateBusinessNo(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)

	no, err := GenerateBusinessNo(constvars.OrderNoPrefix, now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(no, "ORD20260829150405"))
	assert.Len(t, no, len(constvars.OrderNoPrefix)+14+4)

	suffix := no[len(no)-4:]
	for _, c := range suffix {
		assert.True(t, c >= '0' && c <= '9', "suffix must be numeric, got %q", suffix)
	}
}

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()

	assert.True(t, strings.HasPrefix(first, constvars.REQUEST_ID_PREFIX))
	assert.NotEqual(t, first, second)
}
