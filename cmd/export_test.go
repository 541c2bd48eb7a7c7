package cmd

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"

	"github.com/tfaulkner/mhwarm/model"
)

func TestPopulationRoundTrip(t *testing.T) {
	assert := assert.New(t)

	ens, err := model.NewEnsemble(0.0, 3, 17)
	assert.NoError(err)
	for i := range ens.Data {
		ens.Data[i] = float64(i) * 0.5
	}

	filename := filepath.Join(t.TempDir(), "pop.mhw")
	assert.NoError(writePopulation(filename, ens))

	back, err := readPopulation(filename)
	assert.NoError(err)
	assert.Equal(ens.Dims, back.Dims)
	assert.Equal(ens.Lanes, back.Lanes)
	assert.Equal(ens.Data, back.Data)
}

func TestPopulationBadFiles(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	_, err := readPopulation(filepath.Join(dir, "missing.mhw"))
	assert.Error(err)

	// Not zstd at all
	junk := filepath.Join(dir, "junk.mhw")
	assert.NoError(os.WriteFile(junk, []byte("hello there"), 0644))
	_, err = readPopulation(junk)
	assert.Error(err)

	// Valid zstd stream with the wrong magic
	wrong := filepath.Join(dir, "wrong.mhw")
	fd, err := os.Create(wrong)
	assert.NoError(err)
	zw, err := zstd.NewWriter(fd)
	assert.NoError(err)
	assert.NoError(binary.Write(zw, binary.LittleEndian, []uint32{0xdeadbeef, 1, 1, 1}))
	assert.NoError(zw.Close())
	assert.NoError(fd.Close())

	_, err = readPopulation(wrong)
	if assert.Error(err) {
		assert.Contains(err.Error(), "not a population file")
	}
}
