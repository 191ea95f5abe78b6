package train

import "github.com/pkg/errors"

const DeviceCPU = "cpu"

var ErrUnsupportedDevice = errors.New("unsupported device")

// Config is everything Fit needs besides its collaborators.
type Config struct {
	Device         string `yaml:"device"`
	Epochs         int    `yaml:"epochs"`
	BatchSize      int    `yaml:"batch_size"`
	CheckpointPath string `yaml:"checkpoint_path"`
	Progress       bool   `yaml:"progress"`
}

func (c *Config) Validate() error {
	if c.Device != DeviceCPU {
		return errors.Wrapf(ErrUnsupportedDevice, "%q", c.Device)
	}
	if c.Epochs < 1 {
		return errors.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize < 1 {
		return errors.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.CheckpointPath == "" {
		return errors.New("checkpoint path is empty")
	}
	return nil
}
