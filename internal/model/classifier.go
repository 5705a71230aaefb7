package model

import (
	"fmt"
	"math"
	"math/rand"
)

// Dataset is a two-class classification dataset.
type Dataset struct {
	X [][]float64
	Y []int
}

// MakeClassification generates a deterministic synthetic dataset: two
// Gaussian clusters separated along every feature, labels 0 and 1.
func MakeClassification(samples, features int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &Dataset{
		X: make([][]float64, samples),
		Y: make([]int, samples),
	}
	for i := 0; i < samples; i++ {
		label := i % 2
		shift := float64(label)*2 - 1 // -1 or +1 cluster center
		row := make([]float64, features)
		for j := range row {
			row[j] = shift + rng.NormFloat64()
		}
		ds.X[i] = row
		ds.Y[i] = label
	}
	return ds
}

// Split partitions the dataset into train and test sets; testFraction is
// the share of samples held out.
func (d *Dataset) Split(testFraction float64, seed int64) (train, test *Dataset) {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(d.X))
	cut := int(float64(len(d.X)) * (1 - testFraction))

	train = &Dataset{}
	test = &Dataset{}
	for i, idx := range perm {
		if i < cut {
			train.X = append(train.X, d.X[idx])
			train.Y = append(train.Y, d.Y[idx])
		} else {
			test.X = append(test.X, d.X[idx])
			test.Y = append(test.Y, d.Y[idx])
		}
	}
	return train, test
}

// NearestCentroid is the stand-in classifier: predicts the class whose
// training centroid is closest in Euclidean distance.
type NearestCentroid struct {
	Centroids map[int][]float64 `yaml:"centroids"`
	Features  int               `yaml:"num_features"`
}

// Fit computes per-class centroids.
func (m *NearestCentroid) Fit(ds *Dataset) error {
	if len(ds.X) == 0 {
		return fmt.Errorf("cannot fit on an empty dataset")
	}
	m.Features = len(ds.X[0])
	sums := map[int][]float64{}
	counts := map[int]int{}
	for i, row := range ds.X {
		label := ds.Y[i]
		if sums[label] == nil {
			sums[label] = make([]float64, m.Features)
		}
		for j, v := range row {
			sums[label][j] += v
		}
		counts[label]++
	}

	m.Centroids = map[int][]float64{}
	for label, sum := range sums {
		centroid := make([]float64, m.Features)
		for j, v := range sum {
			centroid[j] = v / float64(counts[label])
		}
		m.Centroids[label] = centroid
	}
	return nil
}

// Predict assigns each row to the nearest centroid's class.
func (m *NearestCentroid) Predict(rows [][]float64) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		best := math.MaxFloat64
		for label, centroid := range m.Centroids {
			d := 0.0
			for j, v := range row {
				diff := v - centroid[j]
				d += diff * diff
			}
			if d < best {
				best = d
				out[i] = label
			}
		}
	}
	return out
}

// Accuracy is the fraction of correct predictions.
func Accuracy(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i := range truth {
		if truth[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// F1Weighted computes the support-weighted F1 score over the label set.
func F1Weighted(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	labels := map[int]bool{}
	for _, l := range truth {
		labels[l] = true
	}

	total := 0.0
	for label := range labels {
		var tp, fp, fn, support float64
		for i := range truth {
			if truth[i] == label {
				support++
				if pred[i] == label {
					tp++
				} else {
					fn++
				}
			} else if pred[i] == label {
				fp++
			}
		}
		var f1 float64
		if tp > 0 {
			precision := tp / (tp + fp)
			recall := tp / (tp + fn)
			f1 = 2 * precision * recall / (precision + recall)
		}
		total += f1 * support
	}
	return total / float64(len(truth))
}
