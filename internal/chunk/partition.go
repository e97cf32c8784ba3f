package chunk

// Strategy says how a partitioned dataset is executed.
type Strategy string

const (
	Sequential Strategy = "sequential"
	Parallel   Strategy = "parallel"
)

const (
	smallDataset = 5000
	largeDataset = 50000

	minChunkSize = 100
	maxChunkSize = 10000

	maxWorkers = 8
)

// Config is the partitioning decision for one run.
type Config struct {
	ChunkSize   int
	ChunkCount  int
	Parallelism int
	Strategy    Strategy
}

// PlanInput carries everything the partitioner considers. Parallel
// capability and host parallelism are injected by the caller so both
// strategies can be exercised deterministically in tests.
type PlanInput struct {
	Records int
	// Complexity is a per-row cost factor >= 1 (1 = a typical row).
	// Larger rows shrink the chunk size proportionally.
	Complexity float64
	// MemoryScale grows or shrinks chunks based on available headroom
	// (1 = neutral). Clamped to [0.5, 2].
	MemoryScale float64
	// ParallelAvailable reports whether the host offers a parallel
	// execution facility for this run.
	ParallelAvailable bool
	HostParallelism   int
}

// Complexity estimates a per-row cost factor from the dataset's column
// count and average field length. A 10-column row of 20-character fields
// is the reference row (factor 1).
func Complexity(columns int, avgFieldLen float64) float64 {
	if columns <= 0 || avgFieldLen <= 0 {
		return 1
	}
	factor := float64(columns) * avgFieldLen / 200
	if factor < 1 {
		return 1
	}
	if factor > 4 {
		return 4
	}
	return factor
}

// Plan computes the chunk size and execution strategy for a dataset.
// Small datasets stay in one chunk; mid-size datasets use n/10 chunks
// capped at 2,000 rows; large datasets use n/20 capped at 10,000. The
// computed size is divided by the complexity factor, scaled by the
// memory factor, and clamped to [100, 10000]. Parallel execution is
// chosen only when more than 4 chunks result and the facility is
// available.
func Plan(in PlanInput) Config {
	n := in.Records
	if n <= 0 {
		return Config{Strategy: Sequential, Parallelism: 1}
	}

	if n <= smallDataset {
		return Config{
			ChunkSize:   n,
			ChunkCount:  1,
			Parallelism: 1,
			Strategy:    Sequential,
		}
	}

	var size int
	if n <= largeDataset {
		size = n / 10
		if size > 2000 {
			size = 2000
		}
	} else {
		size = n / 20
		if size > maxChunkSize {
			size = maxChunkSize
		}
	}

	complexity := in.Complexity
	if complexity < 1 {
		complexity = 1
	}
	size = int(float64(size) / complexity)

	scale := in.MemoryScale
	if scale <= 0 {
		scale = 1
	}
	if scale < 0.5 {
		scale = 0.5
	}
	if scale > 2 {
		scale = 2
	}
	size = int(float64(size) * scale)

	if size < minChunkSize {
		size = minChunkSize
	}
	if size > maxChunkSize {
		size = maxChunkSize
	}

	count := (n + size - 1) / size

	cfg := Config{
		ChunkSize:   size,
		ChunkCount:  count,
		Parallelism: 1,
		Strategy:    Sequential,
	}

	if count > 4 && in.ParallelAvailable {
		host := in.HostParallelism
		if host < 1 {
			host = 1
		}
		if host > maxWorkers {
			host = maxWorkers
		}
		workers := (count + 3) / 4
		if workers > host {
			workers = host
		}
		cfg.Strategy = Parallel
		cfg.Parallelism = workers
	}

	return cfg
}

// Bounds returns the [start, end) row range of chunk i under cfg for a
// dataset of n rows. The ranges of all chunks partition 0..n exactly.
func (cfg Config) Bounds(i, n int) (int, int) {
	start := i * cfg.ChunkSize
	end := start + cfg.ChunkSize
	if end > n {
		end = n
	}
	return start, end
}
