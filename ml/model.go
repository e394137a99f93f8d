package ml

// Classifier is the decision procedure of a loaded model.
type Classifier interface {
	Predict(features []float64) (string, error)
}
