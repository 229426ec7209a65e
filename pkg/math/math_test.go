package math_test

import (
	"fmt"
	"testing"

	"github.com/graph-guard/ggmap/pkg/math"
	"github.com/stretchr/testify/require"
)

func TestMax(t *testing.T) {
	require.Equal(t, 1.0, math.Max(-1.0, 1.0))
	require.Equal(t, 1.0, math.Max(1.0, -1.0))
}

func TestMin(t *testing.T) {
	require.Equal(t, -1.0, math.Min(-1.0, 1.0))
	require.Equal(t, -1.0, math.Min(1.0, -1.0))
}

func TestNextPow2(t *testing.T) {
	for _, td := range []struct {
		In, Expect int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{14, 16},
		{16, 16},
		{17, 32},
		{1000, 1024},
	} {
		t.Run(fmt.Sprintf("%d", td.In), func(t *testing.T) {
			require.Equal(t, td.Expect, math.NextPow2(td.In))
			require.True(t, math.IsPow2(math.NextPow2(td.In)))
		})
	}
}

func TestIsPow2(t *testing.T) {
	require.False(t, math.IsPow2(0))
	require.False(t, math.IsPow2(-2))
	require.False(t, math.IsPow2(12))
	require.True(t, math.IsPow2(1))
	require.True(t, math.IsPow2(64))
}
