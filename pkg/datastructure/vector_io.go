package datastructure

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
)

// VectorElement covers the raw on-disk vector element types: node ids and
// weights are 32 bit unsigned, coordinates are 32 bit floats.
type VectorElement interface {
	~uint32 | ~float32
}

// LoadVector reads a raw little-endian vector file with no header. Files
// with a .bz2 suffix (or a .bz2 sibling when the plain file is absent)
// are decompressed transparently. A byte length that is not a multiple of
// the element size is treated as a malformed vector.
func LoadVector[T VectorElement](path string) ([]T, error) {
	data, err := readVectorFile(path)
	if err != nil {
		return nil, err
	}

	var elem T
	elemSize := binary.Size(elem)
	if len(data)%elemSize != 0 {
		return nil, fmt.Errorf("malformed vector file %s: %d bytes is not a multiple of %d", path, len(data), elemSize)
	}

	out := make([]T, len(data)/elemSize)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("malformed vector file %s: %w", path, err)
	}
	return out, nil
}

// SaveVector writes a raw little-endian vector file.
func SaveVector[T VectorElement](path string, vec []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := binary.Write(f, binary.LittleEndian, vec); err != nil {
		return err
	}
	return nil
}

func readVectorFile(path string) ([]byte, error) {
	if !strings.HasSuffix(path, ".bz2") {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if _, err := os.Stat(path + ".bz2"); err == nil {
				path = path + ".bz2"
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		return io.ReadAll(bz)
	}
	return io.ReadAll(f)
}
