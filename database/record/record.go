package record

import (
	"github.com/safing/objectbase/utils"
)

// Record is a serialized model object together with its storage key.
// Data is an opaque dsd blob.
type Record struct {
	Key  Key
	Data []byte
}

// New returns a new record.
func New(key Key, data []byte) *Record {
	return &Record{
		Key:  key,
		Data: data,
	}
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	return &Record{
		Key:  r.Key,
		Data: utils.DuplicateBytes(r.Data),
	}
}
