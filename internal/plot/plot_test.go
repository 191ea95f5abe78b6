package plot

import (
	"bytes"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/mhcattn/mhcattn/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func testHistory() metrics.History {
	var h = metrics.NewHistory()
	h.Append(0.69, metrics.Report{Accuracy: 0.5, Precision: 0.4, Recall: 0.6, ROCAUC: 0.55})
	h.Append(0.52, metrics.Report{Accuracy: 0.7, Precision: 0.6, Recall: 0.6, ROCAUC: 0.72})
	h.Append(0.41, metrics.Report{Accuracy: 0.8, Precision: 0.75, Recall: 0.6, ROCAUC: 0.81})
	return h
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "roc_auc-25.png", FileName("roc_auc", 25))
}

func TestMetricsWritesCharts(t *testing.T) {
	var dir = filepath.Join(t.TempDir(), "visualizations")
	require.NoError(t, Metrics(metrics.DefaultKeys, testHistory(), 3, dir))

	for _, key := range metrics.DefaultKeys {
		data, err := ioutil.ReadFile(filepath.Join(dir, FileName(key, 3)))
		require.NoError(t, err, key)
		assert.True(t, bytes.HasPrefix(data, pngMagic), key)
	}
}

func TestMetricsSkipsMissing(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	var dir = t.TempDir()
	require.NoError(t, Metrics([]string{"f1", "accuracy"}, testHistory(), 3, dir))

	assert.Contains(t, buf.String(), "Metric not found")
	_, err := os.Stat(filepath.Join(dir, FileName("f1", 3)))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, FileName("accuracy", 3)))
	assert.NoError(t, err)
}

func TestMetricsSingleEpochConstant(t *testing.T) {
	var h = metrics.NewHistory()
	h.Append(0.3, metrics.Report{})
	var dir = t.TempDir()
	require.NoError(t, Metrics([]string{metrics.KeyRecall}, h, 1, dir))
	_, err := os.Stat(filepath.Join(dir, FileName(metrics.KeyRecall, 1)))
	assert.NoError(t, err)
}

func TestMetricsEpochMismatch(t *testing.T) {
	assert.Error(t, Metrics([]string{metrics.KeyLoss}, testHistory(), 5, t.TempDir()))
	assert.Error(t, Metrics([]string{metrics.KeyLoss}, testHistory(), 0, t.TempDir()))
}
