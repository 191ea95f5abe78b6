package model

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Binary layout of a checkpoint:
// - little-endian, matrices column-major, values as float32
// - 4 bytes magic/version: 'M', 'H', major 1, minor 0
// - 5 uint32: peptide length, MHC length, alphabet, hidden neurons, outputs
// - hidden layer weights, hidden layer biases
// - output layer weights, output layer biases
var checkpointMagic = []byte{77, 72, 1, 0}

// Save writes the parameters to path, replacing any previous file.
func (m *BindingNet) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return errors.Wrapf(err, "creating checkpoint dir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating checkpoint")
	}
	defer f.Close()

	var w = bufio.NewWriter(f)
	if _, err = w.Write(checkpointMagic); err != nil {
		return err
	}
	var header = []uint32{
		uint32(m.topology.PeptideLength),
		uint32(m.topology.MHCLength),
		uint32(m.topology.Alphabet),
		uint32(m.topology.HiddenNeurons),
		Classes,
	}
	if err = binary.Write(w, binary.LittleEndian, header); err != nil {
		return err
	}
	for _, layer := range []*Layer{m.layer1, m.layer2} {
		if err = writeSlice(w, layer.weights.Data); err != nil {
			return err
		}
		if err = writeSlice(w, layer.biases.Data); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads parameters written by Save. The stored topology must match
// the topology of m.
func (m *BindingNet) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening checkpoint")
	}
	defer f.Close()
	var r = bufio.NewReader(f)

	var magic = make([]byte, 4)
	if _, err = io.ReadFull(r, magic); err != nil {
		return errors.Wrap(err, "reading checkpoint header")
	}
	if magic[0] != checkpointMagic[0] || magic[1] != checkpointMagic[1] {
		return errors.Errorf("%s: magic word does not match expected", path)
	}
	if magic[2] != checkpointMagic[2] || magic[3] != checkpointMagic[3] {
		return errors.Errorf("%s: checkpoint format %v.%v is not supported", path, magic[2], magic[3])
	}

	var header = make([]uint32, 5)
	if err = binary.Read(r, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "reading checkpoint topology")
	}
	var stored = Topology{
		PeptideLength: int(header[0]),
		MHCLength:     int(header[1]),
		Alphabet:      int(header[2]),
		HiddenNeurons: int(header[3]),
	}
	if stored != m.topology || header[4] != Classes {
		return errors.Errorf("%s: checkpoint topology %+v does not match model %+v", path, stored, m.topology)
	}

	for _, layer := range []*Layer{m.layer1, m.layer2} {
		if err = readSlice(r, layer.weights.Data); err != nil {
			return errors.Wrap(err, "reading weights")
		}
		if err = readSlice(r, layer.biases.Data); err != nil {
			return errors.Wrap(err, "reading biases")
		}
	}
	return nil
}

func writeSlice(w io.Writer, data []float64) error {
	buf := make([]byte, 4)
	for j := range data {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(data[j])))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

func readSlice(r io.Reader, data []float64) error {
	buf := make([]byte, 4)
	for j := range data {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		data[j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}
	return nil
}
