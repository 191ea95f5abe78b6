package config

import (
	"io/ioutil"

	"github.com/mhcattn/mhcattn/internal/metrics"
	"github.com/mhcattn/mhcattn/internal/plot"
	"github.com/mhcattn/mhcattn/internal/train"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

type Config struct {
	TrainPath string `yaml:"train_path"`
	ValPath   string `yaml:"val_path"`
	TestPath  string `yaml:"test_path"`

	PeptideLength int     `yaml:"peptide_length"`
	MHCLength     int     `yaml:"mhc_length"`
	HiddenNeurons int     `yaml:"hidden_neurons"`
	LearningRate  float64 `yaml:"learning_rate"`
	Seed          int64   `yaml:"seed"`
	Shuffle       bool    `yaml:"shuffle"`

	PlotDir     string   `yaml:"plot_dir"`
	PlotMetrics []string `yaml:"plot_metrics"`

	Train train.Config `yaml:"train"`
}

func Default() Config {
	return Config{
		TrainPath:     "../data/train.csv",
		ValPath:       "../data/val.csv",
		PeptideLength: 24,
		MHCLength:     34,
		HiddenNeurons: 64,
		LearningRate:  0.001,
		Seed:          3,
		Shuffle:       true,
		PlotDir:       plot.DefaultDir,
		PlotMetrics:   append([]string(nil), metrics.DefaultKeys...),
		Train: train.Config{
			Device:         train.DeviceCPU,
			Epochs:         25,
			BatchSize:      32,
			CheckpointPath: "../saved_models/model.nn",
			Progress:       true,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	var cfg = Default()
	if path == "" {
		return cfg, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err = yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TrainPath == "" || c.ValPath == "" {
		return errors.New("training and validation datasets are required")
	}
	if c.PeptideLength < 1 || c.MHCLength < 1 {
		return errors.Errorf("sequence lengths must be positive, got %d and %d", c.PeptideLength, c.MHCLength)
	}
	if c.HiddenNeurons < 1 {
		return errors.Errorf("hidden neurons must be positive, got %d", c.HiddenNeurons)
	}
	if c.LearningRate <= 0 {
		return errors.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	return c.Train.Validate()
}
