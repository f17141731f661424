// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package dsd

// dynamic structured data
// check here for some benchmarks: https://github.com/alecthomas/go_serialization_benchmarks

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/safing/objectbase/formats/varint"
)

// structTag is used by all formats for field names, so that every format
// exposes the same attribute names.
const structTag = "json"

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.EncOptions{
		Time: cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(err)
	}
}

// Load loads a dsd structured blob into the given interface.
func Load(data []byte, t interface{}) (format SerializationFormat, err error) {
	format, payload, err := Unwrap(data)
	if err != nil {
		return 0, err
	}
	return format, LoadAsFormat(payload, format, t)
}

// Unwrap decompresses the blob, if needed, and returns the serialization
// format and the serialized payload without dsd identifiers.
func Unwrap(data []byte) (format SerializationFormat, payload []byte, err error) {
	if len(data) < 2 {
		return 0, nil, ErrNoMoreSpace
	}

	id, read, err := varint.Unpack8(data)
	if err != nil {
		return 0, nil, err
	}
	if len(data) <= read {
		return 0, nil, ErrNoMoreSpace
	}

	if CompressionFormat(id) == GZIP {
		data, err = decompress(data[read:], GZIP)
		if err != nil {
			return 0, nil, err
		}
		return Unwrap(data)
	}

	format = SerializationFormat(id)
	if _, ok := format.ValidateSerializationFormat(); !ok || format == AUTO {
		return 0, nil, fmt.Errorf("%w: %d", ErrUnknownFormat, id)
	}
	return format, data[read:], nil
}

// LoadAsFormat loads a data blob into the interface using the specified format.
func LoadAsFormat(data []byte, format SerializationFormat, t interface{}) (err error) {
	switch format {
	case JSON:
		err = json.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to unpack json: %w, data: %s", err, string(data))
		}
		return nil
	case CBOR:
		err = cbor.Unmarshal(data, t)
		if err != nil {
			return fmt.Errorf("dsd: failed to decode cbor: %w", err)
		}
		return nil
	case MsgPack:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag(structTag)
		err = dec.Decode(t)
		if err != nil {
			return fmt.Errorf("dsd: failed to decode msgpack: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrIncompatibleFormat, format)
	}
}

// Dump stores the interface as a dsd formatted data structure.
func Dump(t interface{}, format SerializationFormat) ([]byte, error) {
	data, err := dumpWithoutIdentifier(t, format)
	if err != nil {
		return nil, err
	}

	format, _ = format.ValidateSerializationFormat()
	return append(varint.Pack8(uint8(format)), data...), nil
}

func dumpWithoutIdentifier(t interface{}, format SerializationFormat) ([]byte, error) {
	format, ok := format.ValidateSerializationFormat()
	if !ok {
		return nil, ErrIncompatibleFormat
	}

	var data []byte
	var err error
	switch format {
	case JSON:
		// TODO: use SetEscapeHTML(false)
		data, err = json.Marshal(t)
		if err != nil {
			return nil, err
		}
	case CBOR:
		data, err = cborEncMode.Marshal(t)
		if err != nil {
			return nil, err
		}
	case MsgPack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag(structTag)
		err = enc.Encode(t)
		if err != nil {
			return nil, err
		}
		data = buf.Bytes()
	default:
		return nil, fmt.Errorf("dsd: tried to dump with unknown format %d", format)
	}

	return data, nil
}
