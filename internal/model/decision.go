package model

// Decide returns the index of the highest confidence. The running maximum
// starts at 0 and only a strictly greater value replaces it, so ties go to the
// first index and a vector with no positive entry yields 0.
func Decide(confidences ConfidenceVector) int {
	maxPos := 0
	var maxConfidence float32
	for i, c := range confidences {
		if c > maxConfidence {
			maxConfidence = c
			maxPos = i
		}
	}
	return maxPos
}

// NewPrediction applies Decide and maps the winner to its class.
// confidences must hold one entry per class.
func NewPrediction(confidences ConfidenceVector) *Prediction {
	idx := Decide(confidences)
	predictions := make(map[string]float32, len(Classes))
	for i, c := range Classes {
		predictions[c.Name] = confidences[i]
	}

	return &Prediction{
		Index:       idx,
		Class:       Classes[idx].Name,
		Color:       Classes[idx].Hex(),
		Confidence:  confidences[idx],
		Predictions: predictions,
	}
}
