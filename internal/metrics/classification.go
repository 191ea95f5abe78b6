// Package metrics scores binary classifiers. Function semantics follow the
// usual scikit-learn definitions: ratios with a zero denominator are 0 and
// ROC-AUC is undefined when only one class is present.
package metrics

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

var (
	ErrEmpty       = errors.New("no samples to score")
	ErrSingleClass = errors.New("only one class present in y_true, ROC AUC score is not defined")
)

type confusion struct {
	tp, fp, tn, fn int
}

func count(yTrue, yPred []int) (confusion, error) {
	var c confusion
	if err := checkLabels(yTrue, len(yPred)); err != nil {
		return c, err
	}
	for i, y := range yTrue {
		var p = yPred[i]
		if p != 0 && p != 1 {
			return c, errors.Errorf("predicted label %d is not binary", p)
		}
		switch {
		case y == 1 && p == 1:
			c.tp++
		case y == 0 && p == 1:
			c.fp++
		case y == 0 && p == 0:
			c.tn++
		default:
			c.fn++
		}
	}
	return c, nil
}

func checkLabels(yTrue []int, n int) error {
	if len(yTrue) != n {
		return errors.Errorf("found inputs with inconsistent numbers of samples: %d, %d", len(yTrue), n)
	}
	if len(yTrue) == 0 {
		return ErrEmpty
	}
	for _, y := range yTrue {
		if y != 0 && y != 1 {
			return errors.Errorf("true label %d is not binary", y)
		}
	}
	return nil
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func (c confusion) accuracy() float64 {
	return ratio(c.tp+c.tn, c.tp+c.fp+c.tn+c.fn)
}

func (c confusion) precision() float64 {
	return ratio(c.tp, c.tp+c.fp)
}

func (c confusion) recall() float64 {
	return ratio(c.tp, c.tp+c.fn)
}

func (c confusion) f1() float64 {
	return ratio(2*c.tp, 2*c.tp+c.fp+c.fn)
}

type scored struct {
	score float64
	label int
}

func sortByScore(yTrue []int, yScore []float64) []scored {
	var items = make([]scored, len(yTrue))
	for i := range yTrue {
		items[i] = scored{score: yScore[i], label: yTrue[i]}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
	return items
}

// ROCAUC is the area under the ROC curve, computed as the normalised
// Mann-Whitney U statistic with tied scores sharing their average rank.
func ROCAUC(yTrue []int, yScore []float64) (float64, error) {
	if err := checkLabels(yTrue, len(yScore)); err != nil {
		return 0, err
	}
	var items = sortByScore(yTrue, yScore)
	var positives, negatives int
	for _, it := range items {
		positives += it.label
	}
	negatives = len(items) - positives
	if positives == 0 || negatives == 0 {
		return 0, ErrSingleClass
	}

	// ranks ascend with the score, items are sorted descending
	var rankSum float64
	for i := 0; i < len(items); {
		var j = i
		for j < len(items) && items[j].score == items[i].score {
			j++
		}
		var lowRank = float64(len(items) - j + 1)
		var highRank = float64(len(items) - i)
		var avgRank = (lowRank + highRank) / 2
		for k := i; k < j; k++ {
			if items[k].label == 1 {
				rankSum += avgRank
			}
		}
		i = j
	}
	var u = rankSum - float64(positives)*float64(positives+1)/2
	return u / (float64(positives) * float64(negatives)), nil
}

// AveragePrecision summarises the precision-recall curve as the weighted
// mean of precisions at each threshold, weighted by the recall increase.
func AveragePrecision(yTrue []int, yScore []float64) (float64, error) {
	if err := checkLabels(yTrue, len(yScore)); err != nil {
		return 0, err
	}
	var items = sortByScore(yTrue, yScore)
	var positives int
	for _, it := range items {
		positives += it.label
	}
	if positives == 0 {
		return 0, nil
	}

	var ap, prevRecall float64
	var tp, fp int
	for i := 0; i < len(items); {
		var j = i
		for j < len(items) && items[j].score == items[i].score {
			if items[j].label == 1 {
				tp++
			} else {
				fp++
			}
			j++
		}
		var precision = ratio(tp, tp+fp)
		var recall = ratio(tp, positives)
		ap += (recall - prevRecall) * precision
		prevRecall = recall
		i = j
	}
	return ap, nil
}

// Report holds the scores printed after every pass.
type Report struct {
	Accuracy         float64
	Precision        float64
	Recall           float64
	F1               float64
	ROCAUC           float64
	AveragePrecision float64
}

// Evaluate scores hard predictions. Like the per-epoch report it mirrors,
// ranking metrics are computed on the predicted labels themselves.
func Evaluate(yTrue, yPred []int) (Report, error) {
	var r Report
	c, err := count(yTrue, yPred)
	if err != nil {
		return r, err
	}
	r.Accuracy = c.accuracy()
	r.Precision = c.precision()
	r.Recall = c.recall()
	r.F1 = c.f1()

	var scores = make([]float64, len(yPred))
	for i, p := range yPred {
		scores[i] = float64(p)
	}
	if r.ROCAUC, err = ROCAUC(yTrue, scores); err != nil {
		return r, err
	}
	if r.AveragePrecision, err = AveragePrecision(yTrue, scores); err != nil {
		return r, err
	}
	return r, nil
}

func (r Report) String() string {
	return fmt.Sprintf("Accuracy : %v, Precision : %v, Recall : %v, F1-score : %v, ROC_AUC : %v, AuRpC : %v",
		r.Accuracy, r.Precision, r.Recall, r.F1, r.ROCAUC, r.AveragePrecision)
}
