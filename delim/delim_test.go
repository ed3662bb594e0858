package delim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindNext(t *testing.T) {
	seq := []int{1, 1, 1, 2, 2, 3}
	tests := []struct {
		from, step, want int
	}{
		{0, 1, 3},
		{0, 2, 3},
		{0, 5, 3},
		{3, 1, 5},
		{3, 4, 5},
		{5, 1, 6},
		{6, 1, 6},
		{0, 0, 3},
		{0, -3, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindNext(seq, tt.from, tt.step), "from=%d step=%d", tt.from, tt.step)
	}
}

func TestVectorEdgeCases(t *testing.T) {
	assert.Equal(t, []int{}, Vector([]string{}, 1))
	assert.Equal(t, []int{}, Vector[string](nil, 3))
	assert.Equal(t, []int{0}, Vector([]string{"a", "a", "a"}, 2))
	assert.Equal(t, []int{0}, Vector([]int{7}, 1))
	// Trailing run of length one.
	assert.Equal(t, []int{0, 3}, Vector([]int{4, 4, 4, 9}, 2))
	assert.Equal(t, []int{0, 1, 2}, Vector([]int{1, 2, 3}, 8))
}

func TestRuns(t *testing.T) {
	runs := Runs([]int{5, 5, 6, 7, 7, 7}, 1)
	require.Len(t, runs, 3)
	assert.Equal(t, Run{0, 2}, runs[0])
	assert.Equal(t, Run{2, 3}, runs[1])
	assert.Equal(t, Run{3, 6}, runs[2])
	assert.Equal(t, 3, runs[2].Len())
	assert.Empty(t, Runs([]int{}, 1))
}

// contiguous builds a sequence where every value forms exactly one run.
func contiguous(rng *rand.Rand, nRuns, maxLen int) ([]int, []int) {
	var seq, starts []int
	for v := 0; v < nRuns; v++ {
		starts = append(starts, len(seq))
		n := 1 + rng.Intn(maxLen)
		for k := 0; k < n; k++ {
			seq = append(seq, v*7+3)
		}
	}
	return seq, starts
}

func TestVectorPartitionsContiguousRuns(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		seq, want := contiguous(rng, 1+rng.Intn(30), 1+rng.Intn(50))
		for _, step := range []int{1, 2, 3, 7, 16, 100} {
			got := Vector(seq, step)
			require.Equal(t, want, got, "trial=%d step=%d", trial, step)
			assertPartition(t, seq, got)
		}
	}
}

func TestVectorStepOneArbitrarySequence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		seq := make([]int, rng.Intn(200))
		for i := range seq {
			seq[i] = rng.Intn(3)
		}
		assertPartition(t, seq, Vector(seq, 1))
	}
}

func TestFindNextInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	seq, _ := contiguous(rng, 40, 20)
	for _, step := range []int{1, 2, 5, 13} {
		for from := 0; from < len(seq); from++ {
			got := FindNext(seq, from, step)
			require.GreaterOrEqual(t, got, from)
			for j := from; j < got; j++ {
				require.Equal(t, seq[from], seq[j])
			}
			if got < len(seq) {
				require.NotEqual(t, seq[from], seq[got])
			}
		}
	}
}

// assertPartition checks that starts splits seq into maximal runs that
// reassemble to seq.
func assertPartition(t *testing.T, seq []int, starts []int) {
	t.Helper()
	if len(seq) == 0 {
		assert.Empty(t, starts)
		return
	}
	require.Equal(t, 0, starts[0])
	var rebuilt []int
	for k, s := range starts {
		end := len(seq)
		if k+1 < len(starts) {
			end = starts[k+1]
		}
		require.Less(t, s, end)
		for j := s; j < end; j++ {
			require.Equal(t, seq[s], seq[j])
		}
		if k > 0 {
			require.NotEqual(t, seq[s-1], seq[s], "runs must be maximal")
		}
		rebuilt = append(rebuilt, seq[s:end]...)
	}
	assert.Equal(t, seq, rebuilt)
}
