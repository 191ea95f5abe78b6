package main

import (
	"context"
	"log"
	"math/rand"
	"os"

	arg "github.com/alexflint/go-arg"
	"github.com/mhcattn/mhcattn/internal/config"
	"github.com/mhcattn/mhcattn/internal/dataset"
	"github.com/mhcattn/mhcattn/internal/ml"
	"github.com/mhcattn/mhcattn/internal/model"
	"github.com/mhcattn/mhcattn/internal/plot"
	"github.com/mhcattn/mhcattn/internal/train"
)

type args struct {
	Config     string `arg:"--config" help:"YAML config file"`
	Train      string `arg:"--train" help:"training dataset (CSV)"`
	Val        string `arg:"--val" help:"validation dataset (CSV)"`
	Test       string `arg:"--test" help:"optional test dataset (CSV)"`
	Epochs     int    `arg:"--epochs" help:"number of epochs"`
	BatchSize  int    `arg:"--batch-size" help:"batch size"`
	Checkpoint string `arg:"--checkpoint" help:"checkpoint path"`
	Resume     bool   `arg:"--resume" help:"load the checkpoint before training"`
	NoProgress bool   `arg:"--no-progress" help:"hide progress bars"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stdout)

	var a args
	arg.MustParse(&a)

	cfg, err := config.Load(a.Config)
	if err != nil {
		log.Fatal(err)
	}
	applyArgs(&cfg, a)
	log.Printf("%+v", cfg)

	if err = run(cfg, a.Resume); err != nil {
		log.Fatal(err)
	}
}

func applyArgs(cfg *config.Config, a args) {
	if a.Train != "" {
		cfg.TrainPath = a.Train
	}
	if a.Val != "" {
		cfg.ValPath = a.Val
	}
	if a.Test != "" {
		cfg.TestPath = a.Test
	}
	if a.Epochs != 0 {
		cfg.Train.Epochs = a.Epochs
	}
	if a.BatchSize != 0 {
		cfg.Train.BatchSize = a.BatchSize
	}
	if a.Checkpoint != "" {
		cfg.Train.CheckpointPath = a.Checkpoint
	}
	if a.NoProgress {
		cfg.Train.Progress = false
	}
}

func run(cfg config.Config, resume bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var newProvider = func(path string) dataset.IDatasetProvider {
		if path == "" {
			return nil
		}
		return &dataset.FileProvider{
			FilePath:      path,
			PeptideLength: cfg.PeptideLength,
			MHCLength:     cfg.MHCLength,
		}
	}
	splits, err := dataset.LoadSplits(context.Background(),
		newProvider(cfg.TrainPath), newProvider(cfg.ValPath), newProvider(cfg.TestPath))
	if err != nil {
		return err
	}
	var training, validation, test = splits[0], splits[1], splits[2]
	log.Println("Loaded dataset", len(training))
	log.Println("Loaded validation", len(validation))

	var net = model.NewBindingNet(model.Topology{
		PeptideLength: cfg.PeptideLength,
		MHCLength:     cfg.MHCLength,
		Alphabet:      dataset.VocabularySize,
		HiddenNeurons: cfg.HiddenNeurons,
	}, rand.New(rand.NewSource(cfg.Seed)))
	if resume {
		if err = net.Load(cfg.Train.CheckpointPath); err != nil {
			return err
		}
		log.Println("Resumed from", cfg.Train.CheckpointPath)
	}
	log.Println(net)

	var shuffle *rand.Rand
	if cfg.Shuffle {
		shuffle = rand.New(rand.NewSource(cfg.Seed))
	}
	var lossFn = &ml.CrossEntropyLoss{}
	history, err := train.Fit(
		net,
		dataset.NewLoader(training, cfg.Train.BatchSize, shuffle),
		dataset.NewLoader(validation, cfg.Train.BatchSize, nil),
		lossFn,
		ml.NewAdam(net.Parameters(), cfg.LearningRate),
		cfg.Train)
	if err != nil {
		return err
	}

	if err = plot.Metrics(cfg.PlotMetrics, history, cfg.Train.Epochs, cfg.PlotDir); err != nil {
		return err
	}

	if test != nil {
		report, loss, err := train.Evaluate(net, dataset.NewLoader(test, cfg.Train.BatchSize, nil), lossFn, cfg.Train)
		if err != nil {
			return err
		}
		log.Printf("Test - Loss : %v, %v", loss, report)
	}
	return nil
}
