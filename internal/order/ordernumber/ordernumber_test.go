package ordernumber

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFormat(t *testing.T) {
	now := time.Date(2025, time.August, 15, 13, 45, 9, 0, time.UTC)
	userID := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")

	number, err := Generate(now, userID)
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^ORD-20250815134509-A1B2-[A-Z0-9]{6}$`)
	assert.Regexp(t, pattern, number)
}

func TestGenerateUserFragment(t *testing.T) {
	now := time.Now()
	userID := uuid.MustParse("deadbeef-0000-0000-0000-000000000000")

	number, err := Generate(now, userID)
	require.NoError(t, err)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "DEAD", parts[2])
}

func TestGenerateVariesBetweenCalls(t *testing.T) {
	now := time.Now()
	userID := uuid.New()

	seen := map[string]bool{}
	for range 50 {
		number, err := Generate(now, userID)
		require.NoError(t, err)
		seen[number] = true
	}
	// identical timestamps and user, so uniqueness rests on the random suffix
	assert.Greater(t, len(seen), 1)
}
