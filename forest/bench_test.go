package forest

import (
	"testing"
)

func BenchmarkTrain(b *testing.B) {
	X, y := syntheticRegression(1000, 42)

	cfg := DefaultTrainConfig()
	cfg.NumTrees = 50
	cfg.MinLeafSize = 5

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Train(X, y, cfg)
	}
}

func BenchmarkPredictPlain(b *testing.B) {
	X, y := syntheticRegression(1000, 42)
	query, _ := syntheticRegression(100, 7)

	cfg := DefaultTrainConfig()
	cfg.NumTrees = 50
	f, err := Train(X, y, cfg)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Predict(query, DefaultPredictConfig())
	}
}

func BenchmarkPredictLocalLinear(b *testing.B) {
	X, y := syntheticRegression(1000, 42)
	query, _ := syntheticRegression(100, 7)

	cfg := DefaultTrainConfig()
	cfg.NumTrees = 50
	f, err := Train(X, y, cfg)
	if err != nil {
		b.Fatal(err)
	}
	pCfg := PredictConfig{LinearVariables: []int{0, 1, 2}, Lambda: 0.1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Predict(query, pCfg)
	}
}

func BenchmarkWeights(b *testing.B) {
	X, y := syntheticRegression(1000, 42)

	cfg := DefaultTrainConfig()
	cfg.NumTrees = 50
	f, err := Train(X, y, cfg)
	if err != nil {
		b.Fatal(err)
	}
	x := []float64{0.5, 0.5, 0.5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.Weights(x)
	}
}
