package train

import (
	"log"

	"github.com/mhcattn/mhcattn/internal/domain"
	"github.com/mhcattn/mhcattn/internal/metrics"
	"github.com/mhcattn/mhcattn/internal/ml"
	"github.com/pkg/errors"
	"github.com/sbwhitecap/tqdm"
	"github.com/sbwhitecap/tqdm/iterators"
)

// Fit trains model for cfg.Epochs epochs and returns the validation
// history. The loss recorded per epoch is the loss of the last batch
// processed in that epoch, not an epoch mean.
// A metric failure stops training; the history gathered so far is
// returned with the error.
func Fit(
	model IModel,
	trainDL IBatchProvider,
	valDL IBatchProvider,
	lossFn ml.ILoss,
	opt ml.IOptimizer,
	cfg Config,
) (metrics.History, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Println("Train started")
	defer log.Println("Train finished")

	var history = metrics.NewHistory()
	var loss float64
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		log.Println("Epoch", epoch)

		var train = &passResult{}
		var err = forEachBatch(trainDL.Batches(), "Train", cfg, train, func(batch *domain.Batch) {
			var logits = model.Forward(batch)
			train.add(batch.Bind, predict(logits))
			var grads [][]float64
			loss, grads = lossFn.Loss(logits, batch.Bind)
			opt.ZeroGrad()
			model.Backward(batch, grads)
			opt.Step()
		})
		if err != nil {
			return history, err
		}
		trainReport, err := metrics.Evaluate(train.yTrue, train.yPred)
		if err != nil {
			return history, errors.Wrapf(err, "epoch %d: training metrics", epoch)
		}
		log.Printf("Train - Loss : %v, %v", loss, trainReport)

		var val = &passResult{}
		err = forEachBatch(valDL.Batches(), "Validation", cfg, val, func(batch *domain.Batch) {
			var logits = model.Forward(batch)
			val.add(batch.Bind, predict(logits))
			loss, _ = lossFn.Loss(logits, batch.Bind)
		})
		if err != nil {
			return history, err
		}
		valReport, err := metrics.Evaluate(val.yTrue, val.yPred)
		if err != nil {
			return history, errors.Wrapf(err, "epoch %d: validation metrics", epoch)
		}
		log.Printf("Validation - Loss : %v, %v", loss, valReport)

		history.Append(loss, valReport)

		if epoch%2 == 0 {
			if err = model.Save(cfg.CheckpointPath); err != nil {
				return history, errors.Wrapf(err, "epoch %d: saving checkpoint", epoch)
			}
		}
	}
	return history, nil
}

// Evaluate runs a forward-only pass over full batches of dl and scores it.
// It returns the loss of the last batch.
func Evaluate(
	model IModel,
	dl IBatchProvider,
	lossFn ml.ILoss,
	cfg Config,
) (metrics.Report, float64, error) {
	var loss float64
	var res = &passResult{}
	var err = forEachBatch(dl.Batches(), "Evaluate", cfg, res, func(batch *domain.Batch) {
		var logits = model.Forward(batch)
		res.add(batch.Bind, predict(logits))
		loss, _ = lossFn.Loss(logits, batch.Bind)
	})
	if err != nil {
		return metrics.Report{}, 0, err
	}
	report, err := metrics.Evaluate(res.yTrue, res.yPred)
	return report, loss, err
}

// passResult collects labels of one pass; a new one is made for every pass.
type passResult struct {
	yTrue   []int
	yPred   []int
	skipped int
}

func (r *passResult) add(yTrue, yPred []int) {
	r.yTrue = append(r.yTrue, yTrue...)
	r.yPred = append(r.yPred, yPred...)
}

func forEachBatch(
	batches []domain.Batch,
	description string,
	cfg Config,
	res *passResult,
	step func(batch *domain.Batch),
) error {
	var visit = func(i int) {
		var batch = &batches[i]
		if !IsFullBatch(batch, cfg.BatchSize) {
			res.skipped++
			return
		}
		step(batch)
	}
	if cfg.Progress {
		var err = tqdm.With(iterators.Interval(0, len(batches)), description, func(v interface{}) (brk bool) {
			visit(v.(int))
			return
		})
		if err != nil {
			return errors.Wrap(err, "progress")
		}
	} else {
		for i := range batches {
			visit(i)
		}
	}
	if res.skipped != 0 {
		log.Printf("%v: skipped %v partial batches", description, res.skipped)
	}
	return nil
}

func predict(logits [][]float64) []int {
	var res = make([]int, len(logits))
	for i := range logits {
		res[i] = ml.ArgMax(logits[i])
	}
	return res
}
