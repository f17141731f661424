package utils

import (
	"bytes"
	"testing"
)

var (
	stringTestSlice = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	byteTestSlice   = []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
)

func TestStringInSlice(t *testing.T) {
	if !StringInSlice("a", stringTestSlice) {
		t.Fatal("string reported not in slice (1), but it is")
	}
	if !StringInSlice("d", stringTestSlice) {
		t.Fatal("string reported not in slice (2), but it is")
	}
	if !StringInSlice("j", stringTestSlice) {
		t.Fatal("string reported not in slice (3), but it is")
	}

	if StringInSlice("0", stringTestSlice) {
		t.Fatal("string reported in slice (1), but is not")
	}
	if StringInSlice("x", stringTestSlice) {
		t.Fatal("string reported in slice (2), but is not")
	}
	if StringInSlice("k", stringTestSlice) {
		t.Fatal("string reported in slice (3), but is not")
	}
}

func TestDuplicateStrings(t *testing.T) {
	a := DuplicateStrings(stringTestSlice)
	a[0] = "z"
	if stringTestSlice[0] != "a" {
		t.Fatal("copied string slice shares memory with the original")
	}
}

func TestDuplicateBytes(t *testing.T) {
	a := DuplicateBytes(byteTestSlice)
	if !bytes.Equal(a, byteTestSlice) {
		t.Fatal("copied bytes slice is not equal")
	}
	a[0] = 0xFF
	if byteTestSlice[0] != 0 {
		t.Fatal("copied bytes slice shares memory with the original")
	}
}
