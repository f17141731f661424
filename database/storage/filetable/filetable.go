/*
Package filetable provides a file based database storage backend that keeps
all records of a class in a single table file.

Every mutation reads the full table, applies the change and atomically
replaces the file. A table file that cannot be decoded is treated as an empty
table, the next write replaces it. A table file that cannot be read is empty
to readers, but writes fail until it is readable again.
*/
package filetable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/renameio/v2"
	"github.com/hashicorp/go-version"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/singleflight"

	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
	"github.com/safing/objectbase/utils"
)

const (
	defaultFileMode = os.FileMode(0o0600)
	defaultDirMode  = os.FileMode(0o0700)

	// fileVersion is written to every table file.
	fileVersion = "1.0.0"
)

// compatibleVersions are the table file versions this package can read.
var compatibleVersions = version.MustConstraints(version.NewConstraint(">= 1.0, < 2"))

// tableFile is the persisted layout of a table.
type tableFile struct {
	Version string            `json:"version"`
	Class   string            `json:"class"`
	Records map[string][]byte `json:"records"`
}

// pathState is shared by all tables using the same file.
type pathState struct {
	lock       sync.Mutex
	generation atomic.Uint64
}

var (
	states sync.Map // path -> *pathState
	loads  singleflight.Group
)

// FileTable database storage.
type FileTable struct {
	name     string
	path     string
	format   dsd.SerializationFormat
	compress bool
	readOnly bool
	state    *pathState
}

func init() {
	_ = storage.Register("filetable", NewFileTable)
}

// NewFileTable returns a (new) FileTable database stored at the file location.
// The file is created on the first write.
func NewFileTable(name, location string, opts *storage.Options) (storage.Interface, error) {
	if name == "" || location == "" {
		return nil, errors.New("filetable: name and location are required")
	}
	if opts == nil {
		opts = &storage.Options{}
	}

	path, err := filepath.Abs(location)
	if err != nil {
		return nil, fmt.Errorf("filetable: failed to validate path %s: %w", location, err)
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil, fmt.Errorf("filetable: provided database path (%s) is a directory", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("filetable: failed to stat path %s: %w", path, err)
	}

	format, ok := opts.Format.ValidateSerializationFormat()
	if !ok || opts.Format == dsd.AUTO {
		format = dsd.CBOR
	}

	state, _ := states.LoadOrStore(path, &pathState{})
	return &FileTable{
		name:     name,
		path:     path,
		format:   format,
		compress: opts.Compress,
		readOnly: opts.ReadOnly,
		state:    state.(*pathState),
	}, nil
}

func (ft *FileTable) checkKey(key record.Key) error {
	if !key.Valid() || key.Class != ft.name {
		return fmt.Errorf("filetable: %w: %s does not belong to %s", storage.ErrInvalidKey, key, ft.name)
	}
	return nil
}

// Get returns a database record.
func (ft *FileTable) Get(key record.Key) (*record.Record, error) {
	if err := ft.checkKey(key); err != nil {
		return nil, err
	}

	records := ft.sharedLoad()
	data, ok := records[key.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return record.New(key, utils.DuplicateBytes(data)), nil
}

// Put stores a record in the database.
func (ft *FileTable) Put(r *record.Record) error {
	if err := ft.checkKey(r.Key); err != nil {
		return err
	}
	if ft.readOnly {
		return storage.ErrReadOnly
	}

	ft.state.lock.Lock()
	defer ft.state.lock.Unlock()

	current, err := ft.load()
	if err != nil {
		return err
	}
	records := maps.Clone(current)
	if records == nil {
		records = make(map[string][]byte)
	}
	records[r.Key.ID] = utils.DuplicateBytes(r.Data)
	return ft.write(records)
}

// Delete deletes a record from the database.
func (ft *FileTable) Delete(key record.Key) error {
	if err := ft.checkKey(key); err != nil {
		return err
	}
	if ft.readOnly {
		return storage.ErrReadOnly
	}

	ft.state.lock.Lock()
	defer ft.state.lock.Unlock()

	current, err := ft.load()
	if err != nil {
		return err
	}
	if _, ok := current[key.ID]; !ok {
		return nil
	}
	records := maps.Clone(current)
	delete(records, key.ID)
	return ft.write(records)
}

// Scan returns a snapshot of all records in key order.
func (ft *FileTable) Scan() ([]*record.Record, error) {
	records := ft.sharedLoad()

	ids := maps.Keys(records)
	slices.Sort(ids)

	snapshot := make([]*record.Record, 0, len(ids))
	for _, id := range ids {
		snapshot = append(snapshot, record.New(
			record.NewKey(ft.name, id),
			utils.DuplicateBytes(records[id]),
		))
	}
	return snapshot, nil
}

// Shutdown shuts down the database.
func (ft *FileTable) Shutdown() error {
	return nil
}

// sharedLoad coalesces concurrent loads of the same table generation.
// Tables that cannot be read are empty. The returned map must not be modified.
func (ft *FileTable) sharedLoad() map[string][]byte {
	flight := ft.path + "#" + strconv.FormatUint(ft.state.generation.Load(), 10)
	v, err, _ := loads.Do(flight, func() (interface{}, error) {
		return ft.load()
	})
	if err != nil {
		log.Warningf("filetable: %s, using empty table", err)
		return nil
	}
	return v.(map[string][]byte)
}

// load returns the current table. The returned map must not be modified.
// A table that cannot be decoded is returned as empty, a table that cannot
// be accessed is an error.
func (ft *FileTable) load() (map[string][]byte, error) {
	generation := ft.state.generation.Load()

	info, err := os.Stat(ft.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		loadFailures.Inc()
		return nil, fmt.Errorf("filetable: failed to access table of %s at %s: %w", ft.name, ft.path, err)
	}

	if records, ok := cachedRecords(ft.path, generation, info); ok {
		return records, nil
	}

	data, err := os.ReadFile(ft.path)
	if err != nil {
		loadFailures.Inc()
		return nil, fmt.Errorf("filetable: failed to read table of %s at %s: %w", ft.name, ft.path, err)
	}

	records, err := ft.decode(data)
	if err != nil {
		log.Warningf("filetable: table of %s at %s is unusable, using empty table: %s (%s)", ft.name, ft.path, err, utils.PreviewBytes(data))
		loadFailures.Inc()
		return nil, nil
	}

	// do not cache tables read while a write happened
	if ft.state.generation.Load() == generation {
		cacheRecords(ft.path, generation, info, records)
	}
	return records, nil
}

func (ft *FileTable) decode(data []byte) (map[string][]byte, error) {
	var tf tableFile
	_, err := dsd.Load(data, &tf)
	if err != nil {
		return nil, err
	}

	v, err := version.NewVersion(tf.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid table version %q: %w", tf.Version, err)
	}
	if !compatibleVersions.Check(v) {
		return nil, fmt.Errorf("incompatible table version %s", v)
	}

	if tf.Class != ft.name {
		log.Warningf("filetable: table at %s belongs to %s, not %s", ft.path, tf.Class, ft.name)
	}
	if tf.Records == nil {
		tf.Records = make(map[string][]byte)
	}
	return tf.Records, nil
}

// write replaces the table file. The caller must hold the path lock.
func (ft *FileTable) write(records map[string][]byte) error {
	tf := &tableFile{
		Version: fileVersion,
		Class:   ft.name,
		Records: records,
	}

	var data []byte
	var err error
	if ft.compress {
		data, err = dsd.DumpAndCompress(tf, ft.format, dsd.GZIP)
	} else {
		data, err = dsd.Dump(tf, ft.format)
	}
	if err != nil {
		return fmt.Errorf("filetable: failed to encode table of %s: %w", ft.name, err)
	}

	uncacheRecords(ft.path)
	err = writeFile(ft.path, data)
	generation := ft.state.generation.Add(1)
	if err != nil {
		return err
	}

	if info, err := os.Stat(ft.path); err == nil {
		cacheRecords(ft.path, generation, info, records)
	}
	return nil
}

func writeFile(path string, data []byte) error {
	err := renameio.WriteFile(path, data, defaultFileMode)
	if err == nil {
		return nil
	}

	// create dir and try again
	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, defaultDirMode); mkErr != nil {
		return fmt.Errorf("filetable: failed to create directory %s: %w", dir, mkErr)
	}
	err = renameio.WriteFile(path, data, defaultFileMode)
	if err != nil {
		return fmt.Errorf("filetable: failed to write table %s: %w", path, err)
	}
	return nil
}
