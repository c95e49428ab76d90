package perceptron

import (
	"fmt"
	"math"

	"coref/alg/featurevector"
)

// ClassTrainer trains a binary model that separates positive from every other label.
type ClassTrainer func(data Instances, positive string) (Model, error)

func (t *KernelPerceptron) ClassTrainer(voted bool) ClassTrainer {
	return func(data Instances, positive string) (Model, error) {
		m, err := t.Train(data, positive)
		if err != nil {
			return nil, err
		}
		if voted {
			return Voted{m}, nil
		}
		return m, nil
	}
}

func (p *LinearPerceptron) ClassTrainer() ClassTrainer {
	return func(data Instances, positive string) (Model, error) {
		m, err := p.Train(data, positive)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// TrainOneVsRest trains one model per class, passing the class explicitly so that the
// runs share no state besides the per-record weights, which every run resets when it
// uses an epsilon slack.
func TrainOneVsRest(train ClassTrainer, data Instances, classes []string) (map[string]Model, error) {
	models := make(map[string]Model, len(classes))
	for _, class := range classes {
		m, err := train(data, class)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", class, err)
		}
		models[class] = m
	}
	return models, nil
}

// Classify returns the class whose model scores x highest; ties keep the earlier
// class in classes.
func Classify(models map[string]Model, classes []string, x featurevector.Vector) (string, float64) {
	var (
		best      string
		bestScore = math.Inf(-1)
	)
	for _, class := range classes {
		m, exists := models[class]
		if !exists {
			continue
		}
		if s := m.Score(x); s > bestScore {
			best, bestScore = class, s
		}
	}
	return best, bestScore
}
