package dsd

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"

	"github.com/safing/objectbase/formats/varint"
)

// DumpAndCompress stores the interface as a dsd formatted data structure and compresses the resulting data.
func DumpAndCompress(t interface{}, format SerializationFormat, compression CompressionFormat) ([]byte, error) {
	// Check if compression format is valid.
	compression, ok := compression.ValidateCompressionFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}

	data, err := Dump(t, format)
	if err != nil {
		return nil, err
	}

	// prepare writer
	buf := bytes.NewBuffer(nil)
	buf.Write(varint.Pack8(uint8(compression)))

	// compress
	switch compression {
	case GZIP:
		// create gzip writer
		gzipWriter, err := gzip.NewWriterLevel(buf, gzip.BestCompression)
		if err != nil {
			return nil, err
		}

		// write data
		n, err := gzipWriter.Write(data)
		if err != nil {
			return nil, err
		}
		if n != len(data) {
			return nil, errors.New("failed to fully write to gzip compressor")
		}

		// flush and write gzip footer
		err = gzipWriter.Close()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("dsd: tried to compress with unknown format %d", compression)
	}

	return buf.Bytes(), nil
}

// DecompressAndLoad decompresses the data using the specified compression format and then loads the resulting data blob into the interface.
func DecompressAndLoad(data []byte, compression CompressionFormat, t interface{}) (SerializationFormat, error) {
	decompressed, err := decompress(data, compression)
	if err != nil {
		return 0, err
	}
	return Load(decompressed, t)
}

func decompress(data []byte, compression CompressionFormat) ([]byte, error) {
	// prepare reader
	buf := bytes.NewBuffer(nil)

	switch compression {
	case GZIP:
		// create gzip reader
		gzipReader, err := gzip.NewReader(bytes.NewBuffer(data))
		if err != nil {
			return nil, err
		}

		// read uncompressed data
		_, err = buf.ReadFrom(gzipReader)
		if err != nil {
			return nil, err
		}

		// flush and verify gzip footer
		err = gzipReader.Close()
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("dsd: tried to decompress with unknown format %d", compression)
	}

	return buf.Bytes(), nil
}
