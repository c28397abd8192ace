package entity

// SentimentLabel is a single label/score pair produced by the sentiment model
type SentimentLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentResult is an ordered list of labels, highest score first
type SentimentResult []SentimentLabel

// Top returns the highest-scoring label
func (r SentimentResult) Top() (SentimentLabel, bool) {
	if len(r) == 0 {
		return SentimentLabel{}, false
	}
	return r[0], true
}

// IsEmpty reports whether the result carries no labels
func (r SentimentResult) IsEmpty() bool {
	return len(r) == 0
}

// Clone returns a copy that shares no backing array with r
func (r SentimentResult) Clone() SentimentResult {
	if r == nil {
		return nil
	}
	out := make(SentimentResult, len(r))
	copy(out, r)
	return out
}
