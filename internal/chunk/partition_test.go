package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_SmallDatasetSingleChunk(t *testing.T) {
	cfg := Plan(PlanInput{Records: 5000, ParallelAvailable: true, HostParallelism: 8})

	assert.Equal(t, 1, cfg.ChunkCount)
	assert.Equal(t, 5000, cfg.ChunkSize)
	assert.Equal(t, Sequential, cfg.Strategy)
	assert.Equal(t, 1, cfg.Parallelism)
}

func TestPlan_MidDataset(t *testing.T) {
	cfg := Plan(PlanInput{Records: 12000, ParallelAvailable: true, HostParallelism: 8})

	// n/10 = 1200, under the 2000 cap.
	assert.Equal(t, 1200, cfg.ChunkSize)
	assert.Equal(t, 10, cfg.ChunkCount)
	assert.Equal(t, Parallel, cfg.Strategy)
	// ceil(10/4) = 3 workers.
	assert.Equal(t, 3, cfg.Parallelism)
}

func TestPlan_MidDatasetCap(t *testing.T) {
	cfg := Plan(PlanInput{Records: 50000, ParallelAvailable: false})

	assert.Equal(t, 2000, cfg.ChunkSize)
	assert.Equal(t, 25, cfg.ChunkCount)
	assert.Equal(t, Sequential, cfg.Strategy)
}

func TestPlan_LargeDataset(t *testing.T) {
	cfg := Plan(PlanInput{Records: 400000, ParallelAvailable: true, HostParallelism: 16})

	// n/20 = 20000, capped at 10000.
	assert.Equal(t, 10000, cfg.ChunkSize)
	assert.Equal(t, 40, cfg.ChunkCount)
	assert.Equal(t, Parallel, cfg.Strategy)
	// ceil(40/4) = 10, but the host cap is min(16, 8) = 8.
	assert.Equal(t, 8, cfg.Parallelism)
}

func TestPlan_ComplexityShrinksChunks(t *testing.T) {
	base := Plan(PlanInput{Records: 12000})
	heavy := Plan(PlanInput{Records: 12000, Complexity: 2})

	assert.Equal(t, base.ChunkSize/2, heavy.ChunkSize)
}

func TestPlan_MemoryScaleGrowsChunks(t *testing.T) {
	base := Plan(PlanInput{Records: 12000})
	roomy := Plan(PlanInput{Records: 12000, MemoryScale: 1.5})
	tight := Plan(PlanInput{Records: 12000, MemoryScale: 0.5})

	assert.Greater(t, roomy.ChunkSize, base.ChunkSize)
	assert.Less(t, tight.ChunkSize, base.ChunkSize)
}

func TestPlan_ClampFloor(t *testing.T) {
	// Heavy rows and tight memory cannot push chunks below 100 rows.
	cfg := Plan(PlanInput{Records: 12000, Complexity: 100, MemoryScale: 0.5})

	assert.Equal(t, minChunkSize, cfg.ChunkSize)
}

func TestPlan_NoParallelWithoutCapability(t *testing.T) {
	cfg := Plan(PlanInput{Records: 100000, ParallelAvailable: false, HostParallelism: 8})

	assert.Greater(t, cfg.ChunkCount, 4)
	assert.Equal(t, Sequential, cfg.Strategy)
}

func TestPlan_FewChunksStaySequential(t *testing.T) {
	// 8000 records -> 800-row chunks -> 10 chunks would go parallel, but
	// 6000 -> 600-row chunks -> 10 chunks... use a size that yields <= 4.
	cfg := Plan(PlanInput{Records: 5001, ParallelAvailable: true, HostParallelism: 8})

	// n/10 = 500, clamped to 500 -> ceil(5001/500) = 11 chunks: parallel.
	assert.Equal(t, Parallel, cfg.Strategy)

	single := Plan(PlanInput{Records: 4000, ParallelAvailable: true, HostParallelism: 8})
	assert.Equal(t, Sequential, single.Strategy)
}

func TestBounds_LosslessPartition(t *testing.T) {
	for _, n := range []int{5001, 12000, 50001, 123457} {
		cfg := Plan(PlanInput{Records: n})
		covered := 0
		prevEnd := 0
		for i := 0; i < cfg.ChunkCount; i++ {
			start, end := cfg.Bounds(i, n)
			assert.Equal(t, prevEnd, start, "n=%d chunk %d", n, i)
			assert.Greater(t, end, start, "n=%d chunk %d", n, i)
			covered += end - start
			prevEnd = end
		}
		assert.Equal(t, n, covered, "n=%d", n)
		assert.Equal(t, n, prevEnd, "n=%d", n)
	}
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 1.0, Complexity(0, 0))
	assert.Equal(t, 1.0, Complexity(10, 20)) // reference row
	assert.Equal(t, 2.0, Complexity(20, 20))
	assert.Equal(t, 4.0, Complexity(100, 100)) // clamped
}
