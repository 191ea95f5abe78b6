package train

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/mhcattn/mhcattn/internal/domain"
	"github.com/mhcattn/mhcattn/internal/metrics"
	"github.com/mhcattn/mhcattn/internal/ml"
	"github.com/mhcattn/mhcattn/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBatches []domain.Batch

func (s staticBatches) Batches() []domain.Batch { return s }

// spyModel counts what the loop asks of the wrapped model.
type spyModel struct {
	IModel
	forwardSamples  int
	backwardSamples int
	saves           int
}

func (m *spyModel) Forward(batch *domain.Batch) [][]float64 {
	m.forwardSamples += batch.BatchSize
	return m.IModel.Forward(batch)
}

func (m *spyModel) Backward(batch *domain.Batch, dLogits [][]float64) {
	m.backwardSamples += len(dLogits)
	m.IModel.Backward(batch, dLogits)
}

func (m *spyModel) Save(path string) error {
	m.saves++
	return m.IModel.Save(path)
}

func newSpy(seed int64) (*spyModel, ml.IOptimizer) {
	var net = model.NewBindingNet(model.Topology{
		PeptideLength: 3,
		MHCLength:     2,
		Alphabet:      6,
		HiddenNeurons: 4,
	}, rand.New(rand.NewSource(seed)))
	return &spyModel{IModel: net}, ml.NewAdam(net.Parameters(), 0.01)
}

func batchOf(labels ...int) domain.Batch {
	var samples = make([]domain.Sample, len(labels))
	for i, y := range labels {
		samples[i] = domain.Sample{
			Peptide: []int{1 + i%5, 2, 3},
			MHC:     []int{1 + y, 4},
			Bind:    y,
		}
	}
	return domain.NewBatch(samples)
}

func testConfig(t *testing.T, epochs int) Config {
	return Config{
		Device:         DeviceCPU,
		Epochs:         epochs,
		BatchSize:      4,
		CheckpointPath: filepath.Join(t.TempDir(), "model.nn"),
	}
}

func TestFitTwoEpochs(t *testing.T) {
	var spy, opt = newSpy(1)
	var trainDL = staticBatches{batchOf(0, 1, 0, 1), batchOf(1, 1, 0, 0), batchOf(1, 0)}
	var valDL = staticBatches{batchOf(0, 1, 1, 0)}
	var cfg = testConfig(t, 2)

	history, err := Fit(spy, trainDL, valDL, &ml.CrossEntropyLoss{}, opt, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, history.Epochs())
	for _, key := range metrics.DefaultKeys {
		assert.Len(t, history[key], 2, key)
	}
	assert.Equal(t, 1, spy.saves)
	_, err = os.Stat(cfg.CheckpointPath)
	assert.NoError(t, err)
}

func TestFitSkipsPartialBatches(t *testing.T) {
	var spy, opt = newSpy(2)
	var trainDL = staticBatches{batchOf(0, 1, 0, 1), batchOf(1), batchOf(1, 1, 0, 0), batchOf(0, 1, 1)}
	var valDL = staticBatches{batchOf(0, 1, 1, 0), batchOf(1, 0)}

	_, err := Fit(spy, trainDL, valDL, &ml.CrossEntropyLoss{}, opt, testConfig(t, 1))
	require.NoError(t, err)

	// two full training batches and one full validation batch
	assert.Equal(t, 8+4, spy.forwardSamples)
	assert.Equal(t, 8, spy.backwardSamples)
	assert.Equal(t, 2, opt.(*ml.Adam).Steps())
}

func TestFitCheckpointsOnEvenEpochs(t *testing.T) {
	for epochs, saves := range map[int]int{1: 0, 2: 1, 3: 1, 4: 2, 5: 2} {
		var spy, opt = newSpy(3)
		var cfg = testConfig(t, epochs)
		_, err := Fit(spy, staticBatches{batchOf(0, 1, 0, 1)}, staticBatches{batchOf(1, 0, 0, 1)},
			&ml.CrossEntropyLoss{}, opt, cfg)
		require.NoError(t, err)
		assert.Equal(t, saves, spy.saves, "epochs=%d", epochs)
		_, err = os.Stat(cfg.CheckpointPath)
		assert.Equal(t, saves > 0, err == nil, "epochs=%d", epochs)
	}
}

// countingLoss reports the number of calls so far as the loss.
type countingLoss struct {
	calls int
}

func (l *countingLoss) Loss(logits [][]float64, targets []int) (float64, [][]float64) {
	l.calls++
	var grads = make([][]float64, len(logits))
	for i := range grads {
		grads[i] = make([]float64, len(logits[i]))
	}
	return float64(l.calls), grads
}

func TestFitRecordsLastBatchLoss(t *testing.T) {
	var spy, opt = newSpy(4)
	var trainDL = staticBatches{batchOf(0, 1, 0, 1), batchOf(1, 1, 0, 0)}
	var valDL = staticBatches{batchOf(0, 1, 1, 0)}

	history, err := Fit(spy, trainDL, valDL, &countingLoss{}, opt, testConfig(t, 2))
	require.NoError(t, err)
	// three loss calls per epoch, the validation batch comes last
	assert.Equal(t, []float64{3, 6}, history[metrics.KeyLoss])
}

func TestFitSingleClassValidationStops(t *testing.T) {
	var spy, opt = newSpy(5)
	var cfg = testConfig(t, 3)
	history, err := Fit(spy, staticBatches{batchOf(0, 1, 0, 1)}, staticBatches{batchOf(1, 1, 1, 1)},
		&ml.CrossEntropyLoss{}, opt, cfg)
	require.Error(t, err)
	assert.Equal(t, metrics.ErrSingleClass, errors.Cause(err))
	assert.Equal(t, 0, history.Epochs())
	assert.Equal(t, 0, spy.saves)
}

func TestFitSingleClassTrainingStops(t *testing.T) {
	var spy, opt = newSpy(9)
	var cfg = testConfig(t, 2)
	history, err := Fit(spy, staticBatches{batchOf(0, 0, 0, 0), batchOf(0, 0, 0, 0)}, staticBatches{batchOf(1, 0, 0, 1)},
		&ml.CrossEntropyLoss{}, opt, cfg)
	require.Error(t, err)
	assert.Equal(t, metrics.ErrSingleClass, errors.Cause(err))
	assert.Contains(t, err.Error(), "training metrics")
	assert.Equal(t, 0, history.Epochs())
	assert.Equal(t, 0, spy.saves)
	// validation never ran
	assert.Equal(t, 8, spy.forwardSamples)
	_, err = os.Stat(cfg.CheckpointPath)
	assert.True(t, os.IsNotExist(err))
}

func TestFitRejectsInvalidConfig(t *testing.T) {
	var spy, opt = newSpy(6)
	var cfg = testConfig(t, 1)
	cfg.Device = "cuda"
	_, err := Fit(spy, staticBatches{}, staticBatches{}, &ml.CrossEntropyLoss{}, opt, cfg)
	assert.Equal(t, ErrUnsupportedDevice, errors.Cause(err))

	cfg = testConfig(t, 0)
	_, err = Fit(spy, staticBatches{}, staticBatches{}, &ml.CrossEntropyLoss{}, opt, cfg)
	assert.Error(t, err)
}

func TestFitWithProgress(t *testing.T) {
	var spy, opt = newSpy(7)
	var cfg = testConfig(t, 1)
	cfg.Progress = true
	history, err := Fit(spy, staticBatches{batchOf(0, 1, 0, 1)}, staticBatches{batchOf(1, 0, 0, 1)},
		&ml.CrossEntropyLoss{}, opt, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, history.Epochs())
}

func TestEvaluate(t *testing.T) {
	var spy, _ = newSpy(8)
	report, loss, err := Evaluate(spy, staticBatches{batchOf(0, 1, 1, 0), batchOf(1)},
		&ml.CrossEntropyLoss{}, testConfig(t, 1))
	require.NoError(t, err)
	assert.True(t, loss > 0)
	assert.True(t, report.Accuracy >= 0 && report.Accuracy <= 1)
	assert.Equal(t, 4, spy.forwardSamples)
	assert.Equal(t, 0, spy.backwardSamples)
}

func TestIsFullBatch(t *testing.T) {
	var b = batchOf(0, 1, 1)
	assert.True(t, IsFullBatch(&b, 3))
	assert.False(t, IsFullBatch(&b, 4))
}
