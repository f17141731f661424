// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package dsd

import (
	"reflect"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type SimpleTestStruct struct {
	S string
	B byte
}

type ComplexTestStruct struct {
	I    int
	I8   int8
	I16  int16
	I32  int32
	I64  int64
	Ui   uint
	Ui8  uint8
	Ui16 uint16
	Ui32 uint32
	Ui64 uint64
	S    string
	Sp   *string
	Sa   []string
	Sap  *[]string
	B    byte
	Bp   *byte
	Ba   []byte
	Bap  *[]byte
	M    map[string]string
	Mp   *map[string]string
}

type TaggedTestStruct struct {
	Name    string    `json:"name"`
	Age     int       `json:"age"`
	Created time.Time `json:"created"`
}

func TestConversion(t *testing.T) {
	t.Parallel()

	simpleSubject := &SimpleTestStruct{
		"a",
		0x01,
	}

	bString := "b"
	var bBytes byte = 0x02

	complexSubject := &ComplexTestStruct{
		-1,
		-2,
		-3,
		-4,
		-5,
		1,
		2,
		3,
		4,
		5,
		"a",
		&bString,
		[]string{"c", "d", "e"},
		&[]string{"f", "g", "h"},
		0x01,
		&bBytes,
		[]byte{0x03, 0x04, 0x05},
		&[]byte{0x05, 0x06, 0x07},
		map[string]string{
			"a": "b",
			"c": "d",
			"e": "f",
		},
		&map[string]string{
			"g": "h",
			"i": "j",
			"k": "l",
		},
	}

	formats := []SerializationFormat{JSON, CBOR, MsgPack}

	for _, format := range formats {
		// simple
		b, err := Dump(simpleSubject, format)
		require.NoError(t, err, "Dump error (simple struct, %s)", format)

		so := &SimpleTestStruct{}
		loadedFormat, err := Load(b, so)
		require.NoError(t, err, "Load error (simple struct, %s)", format)
		assert.Equal(t, format, loadedFormat)

		if !reflect.DeepEqual(simpleSubject, so) {
			t.Errorf("Load (simple struct, %s): subject does not match loaded object\n%s", format, spew.Sdump(simpleSubject, so))
		}

		// complex
		b, err = Dump(complexSubject, format)
		require.NoError(t, err, "Dump error (complex struct, %s)", format)

		co := &ComplexTestStruct{}
		_, err = Load(b, co)
		require.NoError(t, err, "Load error (complex struct, %s)", format)

		if !reflect.DeepEqual(complexSubject, co) {
			t.Errorf("Load (complex struct, %s): subject does not match loaded object\n%s", format, spew.Sdump(complexSubject, co))
		}
	}
}

func TestStructTags(t *testing.T) {
	t.Parallel()

	subject := &TaggedTestStruct{
		Name:    "ada",
		Age:     36,
		Created: time.Date(2016, 1, 16, 12, 30, 0, 123456789, time.UTC),
	}

	for _, format := range []SerializationFormat{JSON, CBOR, MsgPack} {
		b, err := Dump(subject, format)
		require.NoError(t, err)

		loaded := &TaggedTestStruct{}
		_, err = Load(b, loaded)
		require.NoError(t, err)
		assert.Equal(t, subject.Name, loaded.Name, format.String())
		assert.Equal(t, subject.Age, loaded.Age, format.String())
		assert.True(t, subject.Created.Equal(loaded.Created), "%s: time %s != %s", format, subject.Created, loaded.Created)
	}

	b, err := Dump(subject, JSON)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"name":"ada"`)
}

func TestCompression(t *testing.T) {
	t.Parallel()

	subject := &SimpleTestStruct{S: "compress me, compress me, compress me", B: 0x07}

	b, err := DumpAndCompress(subject, CBOR, GZIP)
	require.NoError(t, err)
	assert.Equal(t, byte(GZIP), b[0])

	loaded := &SimpleTestStruct{}
	format, err := Load(b, loaded)
	require.NoError(t, err)
	assert.Equal(t, CBOR, format)
	assert.Equal(t, subject, loaded)

	loaded = &SimpleTestStruct{}
	format, err = DecompressAndLoad(b[1:], GZIP, loaded)
	require.NoError(t, err)
	assert.Equal(t, CBOR, format)
	assert.Equal(t, subject, loaded)

	format, payload, err := Unwrap(b)
	require.NoError(t, err)
	assert.Equal(t, CBOR, format)
	assert.NotEmpty(t, payload)
}

func TestInvalidData(t *testing.T) {
	t.Parallel()

	_, err := Load([]byte{byte(JSON)}, &SimpleTestStruct{})
	assert.ErrorIs(t, err, ErrNoMoreSpace)

	_, err = Load([]byte{0x01, 0x02, 0x03}, &SimpleTestStruct{})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load([]byte{byte(JSON), '{', 'x'}, &SimpleTestStruct{})
	assert.Error(t, err)

	_, err = Dump(&SimpleTestStruct{}, SerializationFormat(1))
	assert.ErrorIs(t, err, ErrIncompatibleFormat)

	format, ok := ParseSerializationFormat("msgpack")
	assert.True(t, ok)
	assert.Equal(t, MsgPack, format)
	_, ok = ParseSerializationFormat("xml")
	assert.False(t, ok)
}
