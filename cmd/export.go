package cmd

import (
	"encoding/binary"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/tfaulkner/mhwarm/model"
)

// Population files are a little-endian header (magic, version, dims, lanes)
// followed by the dimension-major float64 array, all zstd compressed.
const (
	populationMagic   uint32 = 0x4d485731 // "MHW1"
	populationVersion uint32 = 1
)

// writePopulation persists a warmed ensemble.
func writePopulation(filename string, ens *model.Ensemble) error {
	fd, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not create population file %s", filename)
	}

	zw, err := zstd.NewWriter(fd)
	if err != nil {
		fd.Close()
		return errors.Wrap(err, "Could not start the compressor")
	}

	header := []uint32{populationMagic, populationVersion, uint32(ens.Dims), uint32(ens.Lanes)}
	werr := binary.Write(zw, binary.LittleEndian, header)
	if werr == nil {
		werr = binary.Write(zw, binary.LittleEndian, ens.Data)
	}

	if err := zw.Close(); werr == nil {
		werr = err
	}
	if err := fd.Close(); werr == nil {
		werr = err
	}
	if werr != nil {
		return errors.Wrapf(werr, "Could not write population file %s", filename)
	}

	return nil
}

// readPopulation loads a population file back into an ensemble.
func readPopulation(filename string) (*model.Ensemble, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not open population file %s", filename)
	}
	defer fd.Close()

	zr, err := zstd.NewReader(fd)
	if err != nil {
		return nil, errors.Wrap(err, "Could not start the decompressor")
	}
	defer zr.Close()

	var header [4]uint32
	if err := binary.Read(zr, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrapf(err, "Could not read population header from %s", filename)
	}
	if header[0] != populationMagic {
		return nil, errors.Errorf("File %s is not a population file", filename)
	}
	if header[1] != populationVersion {
		return nil, errors.Errorf("Population file %s is version %d (want %d)", filename, header[1], populationVersion)
	}

	ens, err := model.NewEnsemble(0.0, int(header[2]), int(header[3]))
	if err != nil {
		return nil, errors.Wrapf(err, "Population file %s has a bad shape", filename)
	}
	if err := binary.Read(zr, binary.LittleEndian, ens.Data); err != nil {
		return nil, errors.Wrapf(err, "Could not read population data from %s", filename)
	}

	return ens, nil
}
