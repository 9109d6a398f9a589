package linear

import (
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/basiskit/basiskit/core/model"
	"github.com/basiskit/basiskit/pkg/errors"
)

// createBenchmarkData returns X in [-1,1] and y = 1 + X*w + small noise.
func createBenchmarkData(rows, cols int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(42, 42))

	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	trueWeights := make([]float64, cols)
	for j := 0; j < cols; j++ {
		trueWeights[j] = float64(j+1) * 0.5
	}

	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		sum := 1.0
		for j := 0; j < cols; j++ {
			sum += X.At(i, j) * trueWeights[j]
		}
		sum += (rng.Float64() - 0.5) * 0.1
		y.Set(i, 0, sum)
	}

	return X, y
}

func BenchmarkRegressionTrain(b *testing.B) {
	errors.SetWarningHandler(func(error) {})
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x10", 100, 10},
		{"Small_900x10", 900, 10}, // below the parallel threshold
		{"Medium_2000x10", 2000, 10},
		{"Large_10000x20", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			X, y := createBenchmarkData(size.rows, size.cols)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := NewRegression(model.WithLearningRate(0.1), model.WithMaxIter(100))
				if err := r.Train(X, y); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRegressionNormalEquation(b *testing.B) {
	X, y := createBenchmarkData(10000, 20)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := NewRegression()
		if err := r.TrainNormalEquation(X, y); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBasisExpand(b *testing.B) {
	X, _ := createBenchmarkData(10000, 20)
	r := NewRegression()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Basis().Expand(X); err != nil {
			b.Fatal(err)
		}
	}
}
