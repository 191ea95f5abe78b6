package dataset

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/mhcattn/mhcattn/internal/domain"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type IDatasetProvider interface {
	Load(ctx context.Context) ([]domain.Sample, error)
}

type record struct {
	Peptide string `csv:"peptide"`
	MHC     string `csv:"mhc_amino_acid"`
	Bind    int    `csv:"bind"`
}

// FileProvider reads a CSV file with a peptide,mhc_amino_acid,bind header.
type FileProvider struct {
	FilePath      string
	PeptideLength int
	MHCLength     int
}

func (dp *FileProvider) Load(ctx context.Context) ([]domain.Sample, error) {
	data, err := ioutil.ReadFile(dp.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset")
	}
	if err = checkHeader(data); err != nil {
		return nil, errors.Wrap(err, dp.FilePath)
	}

	var records []record
	if err = gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", dp.FilePath)
	}

	var samples = make([]domain.Sample, 0, len(records))
	for i := range records {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		var r = &records[i]
		if r.Bind != 0 && r.Bind != 1 {
			// line 1 is the header
			return nil, errors.Errorf("%s:%d: bind label must be 0 or 1, got %d", dp.FilePath, i+2, r.Bind)
		}
		samples = append(samples, domain.Sample{
			Peptide: Encode(r.Peptide, dp.PeptideLength),
			MHC:     Encode(r.MHC, dp.MHCLength),
			Bind:    r.Bind,
		})
	}
	return samples, nil
}

var requiredColumns = []string{"peptide", "mhc_amino_acid", "bind"}

// checkHeader fails when a column of record is missing; gocsv would leave
// the field zero and the sample would look valid.
func checkHeader(data []byte) error {
	header, err := gocsv.DefaultCSVReader(bytes.NewReader(data)).Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	var present = make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, name := range requiredColumns {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) != 0 {
		return errors.Errorf("missing columns %v", strings.Join(missing, ", "))
	}
	return nil
}

// LoadSplits loads every provider concurrently. A nil provider yields a
// nil split.
func LoadSplits(ctx context.Context, providers ...IDatasetProvider) ([][]domain.Sample, error) {
	log.Println("load dataset started")
	defer log.Println("load dataset finished")

	var res = make([][]domain.Sample, len(providers))
	g, ctx := errgroup.WithContext(ctx)
	for i := range providers {
		var i = i
		if providers[i] == nil {
			continue
		}
		g.Go(func() error {
			samples, err := providers[i].Load(ctx)
			if err != nil {
				return err
			}
			res[i] = samples
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
