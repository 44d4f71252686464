package forest

import (
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/grove/core/parallel"
	"github.com/YuminosukeSato/grove/pkg/log"
)

// Forest is an ordered collection of trained trees together with the
// configuration that produced them and the training dataset needed for
// weight aggregation. Immutable after Train returns; safe for
// concurrent prediction.
type Forest struct {
	Trees  []*Tree
	Config TrainConfig

	data *Dataset
}

// Dataset exposes the training data the forest was grown on.
func (f *Forest) Dataset() *Dataset { return f.data }

// Train grows a forest on the given covariate matrix and response
// column vector. Trees are built on independent workers; each tree
// draws its subsample and per-node variable subsets from a PCG stream
// seeded with (cfg.Seed, tree index), so the result is reproducible
// regardless of scheduling.
//
// Malformed input (shape mismatch, non-finite values, empty data,
// invalid configuration) is fatal. A tree that cannot split beyond the
// root still contributes a single-leaf tree.
func Train(X, y mat.Matrix, cfg TrainConfig) (*Forest, error) {
	rows, cols := X.Dims()
	if err := cfg.validate(rows, cols); err != nil {
		return nil, err
	}

	data, err := newDataset(X, y, cfg.SampleWeights)
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("forest.trainer")
	start := time.Now()
	if cfg.Verbosity > 0 {
		logger.Info("Training started",
			log.OperationKey, "train",
			log.SamplesKey, rows,
			log.FeaturesKey, cols,
			log.TreesKey, cfg.NumTrees,
			log.SeedKey, cfg.Seed,
		)
	}

	forest := &Forest{
		Trees:  make([]*Tree, cfg.NumTrees),
		Config: cfg,
		data:   data,
	}

	parallel.ParallelizeWorkers(cfg.NumTrees, cfg.NumWorkers, func(startIdx, endIdx int) {
		for b := startIdx; b < endIdx; b++ {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(b)))
			structure, honest := drawSample(rng, data.rows, &cfg)
			builder := newTreeBuilder(data, &cfg, rng)
			forest.Trees[b] = builder.build(structure, honest)
		}
	})

	if cfg.Verbosity > 0 {
		logger.Info("Training finished",
			log.OperationKey, "train",
			log.TreesKey, cfg.NumTrees,
			log.DurationMsKey, time.Since(start).Milliseconds(),
		)
	}

	return forest, nil
}

// drawSample draws one tree's observation subsample and, when honesty
// is enabled, partitions it into the structure half used for split
// selection and the honest half reserved for leaf weights. With honesty
// disabled both roles use the full subsample.
func drawSample(rng *rand.Rand, n int, cfg *TrainConfig) (structure, honest []int) {
	size := int(math.Ceil(cfg.SampleFraction * float64(n)))
	if size < 1 {
		size = 1
	}

	var sample []int
	if cfg.Replace {
		sample = make([]int, size)
		for i := range sample {
			sample[i] = rng.IntN(n)
		}
	} else {
		if size > n {
			size = n
		}
		perm := rng.Perm(n)
		sample = perm[:size]
	}

	if !cfg.Honesty {
		return sample, sample
	}

	// Two-phase random partition: shuffle, then halve. A subsample of
	// one cannot be halved and degrades to the non-honest behavior.
	rng.Shuffle(len(sample), func(i, j int) {
		sample[i], sample[j] = sample[j], sample[i]
	})
	half := len(sample) / 2
	if half == 0 {
		return sample, sample
	}
	return sample[:half], sample[half:]
}
