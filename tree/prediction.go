package tree

import (
	"fmt"
	"sort"
	"strings"
)

/*
Prediction represents the prediction held by a leaf of a decision
tree: the frequency table of the class labels of the training rows
that reached the leaf.
*/
type Prediction struct {
	counts map[string]int
	total  int
}

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromEmptyCounts is the error returned when trying
to build a prediction from an empty class frequency table.
*/
const ErrCannotPredictFromEmptyCounts = PredictionError("cannot make prediction without class counts")

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
NewPrediction takes a map of class labels to the number of
training rows carrying them and returns a prediction representing
those counts, or an error if the map is empty. The prediction
takes ownership of the map: callers must not mutate it afterwards.
*/
func NewPrediction(counts map[string]int) (*Prediction, error) {
	var total int
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, ErrCannotPredictFromEmptyCounts
	}
	return &Prediction{counts: counts, total: total}, nil
}

/*
CountOf takes a class label and returns the number of training
rows carrying it that reached the prediction's leaf.
*/
func (p *Prediction) CountOf(label string) int {
	return p.counts[label]
}

/*
Counts returns the class frequency table of the prediction. The
returned map is owned by the prediction and must not be mutated.
*/
func (p *Prediction) Counts() map[string]int {
	return p.counts
}

/*
Total returns the number of training rows that reached the
prediction's leaf.
*/
func (p *Prediction) Total() int {
	return p.total
}

/*
ProbabilityOf takes a class label and returns the float64
probability of that label according to the prediction: its count
over the total count of rows on the leaf.
*/
func (p *Prediction) ProbabilityOf(label string) float64 {
	return float64(p.counts[label]) / float64(p.total)
}

/*
Probabilities returns a map of class label to float64 probability,
each label's count divided by the total count of rows on the leaf.
*/
func (p *Prediction) Probabilities() map[string]float64 {
	probs := make(map[string]float64, len(p.counts))
	for label, c := range p.counts {
		probs[label] = float64(c) / float64(p.total)
	}
	return probs
}

/*
PredictedLabel returns a string with the most frequent label and a
float64 with its probability. Ties are resolved towards the
lexicographically smaller label so the result is stable.
*/
func (p *Prediction) PredictedLabel() (label string, prob float64) {
	for l, c := range p.counts {
		cProb := float64(c) / float64(p.total)
		if cProb > prob || (cProb == prob && (label == "" || l < label)) {
			label = l
			prob = cProb
		}
	}
	return
}

func (p *Prediction) String() string {
	labels := make([]string, 0, len(p.counts))
	for l := range p.counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, fmt.Sprintf("%s: %d", l, p.counts[l]))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
