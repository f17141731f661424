package varint

import "encoding/binary"

// Pack8 packs a uint8 into a VarInt.
func Pack8(n uint8) []byte {
	if n < 128 {
		return []byte{n}
	}
	return []byte{n, 0x01}
}

// Pack64 packs a uint64 into a VarInt.
func Pack64(n uint64) []byte {
	buf := make([]byte, binary.MaxVarintLen64)
	size := binary.PutUvarint(buf, n)
	return buf[:size]
}

// Unpack8 unpacks a VarInt into a uint8. It returns the extracted int, how many bytes were used and an error.
func Unpack8(blob []byte) (uint8, int, error) {
	if len(blob) < 1 {
		return 0, 0, errEmptyBuf
	}
	if blob[0] < 128 {
		return blob[0], 1, nil
	}
	if len(blob) < 2 {
		return 0, 0, errTooSmall
	}
	if blob[1] != 0x01 {
		return 0, 0, &valueExceededError{max: "255"}
	}
	return blob[0], 2, nil
}

// Unpack64 unpacks a VarInt into a uint64. It returns the extracted int, how many bytes were used and an error.
func Unpack64(blob []byte) (uint64, int, error) {
	if len(blob) < 1 {
		return 0, 0, errEmptyBuf
	}
	n, size := binary.Uvarint(blob)
	switch {
	case size == 0:
		return 0, 0, errTooSmall
	case size < 0:
		return 0, 0, &valueExceededError{max: "18446744073709551615"}
	}
	return n, size, nil
}
