package verification

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeDigits)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)

		seen[code] = struct{}{}
	}
	// 200 draws from a million values should essentially never all collide.
	require.Greater(t, len(seen), 150)
}
