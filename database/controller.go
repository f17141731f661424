package database

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/safing/objectbase/config"
	"github.com/safing/objectbase/database/record"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
)

const (
	backendDisk   = "disk"
	backendMemory = "memory"
)

var (
	controllers     = make(map[string]*controller)
	controllersLock sync.RWMutex

	nameConstraint = regexp.MustCompile("^[A-Za-z0-9_-]+$")
)

// ClassOptions holds per class settings. Unset fields fall back to the
// class entry of the config, then to the config defaults.
type ClassOptions struct {
	// DatabasePath is the location of the disk database of the class.
	// It must not change once data was written.
	DatabasePath string
	// Storage is the disk storage type, eg. "filetable" or "bbolt".
	Storage string
	// Format is the serialization format of records.
	Format dsd.SerializationFormat
}

// controller holds the two backends of a class. The memory backend lives as
// long as the process, the disk backend is started on first use and stopped
// on Shutdown.
type controller struct {
	name   string
	opts   ClassOptions
	pather DatabasePather

	memory storage.Interface

	diskLock sync.Mutex
	disk     storage.Interface
}

func registerController(name string, opts *ClassOptions, pather DatabasePather) (*controller, error) {
	if !nameConstraint.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidClassName, name)
	}
	if opts == nil {
		opts = &ClassOptions{}
	}
	if opts.Storage != "" && !storage.IsRegistered(opts.Storage) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStorageType, opts.Storage)
	}
	if _, ok := opts.Format.ValidateSerializationFormat(); !ok {
		return nil, fmt.Errorf("%w: %d", dsd.ErrUnknownFormat, opts.Format)
	}

	controllersLock.Lock()
	defer controllersLock.Unlock()

	if _, ok := controllers[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrClassRegistered, name)
	}

	memory, err := storage.StartDatabase(name, memoryStorageType, "", nil)
	if err != nil {
		return nil, fmt.Errorf("could not start memory database for %s: %w", name, err)
	}

	c := &controller{
		name:   name,
		opts:   *opts,
		pather: pather,
		memory: memory,
	}
	controllers[name] = c
	return c, nil
}

func getController(name string) (*controller, error) {
	controllersLock.RLock()
	defer controllersLock.RUnlock()

	c, ok := controllers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClassNotRegistered, name)
	}
	return c, nil
}

func allControllers() []*controller {
	controllersLock.RLock()
	defer controllersLock.RUnlock()

	all := make([]*controller, 0, len(controllers))
	for _, c := range controllers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].name < all[j].name
	})
	return all
}

func (c *controller) classConfig() (*config.Config, config.ClassConfig) {
	cfg := getConfig()
	return cfg, cfg.Class(c.name)
}

func (c *controller) storageType() string {
	if c.opts.Storage != "" {
		return c.opts.Storage
	}
	_, cc := c.classConfig()
	return cc.Storage
}

func (c *controller) databasePath() string {
	if c.pather != nil {
		if path := c.pather.DatabasePath(); path != "" {
			return path
		}
	}
	if c.opts.DatabasePath != "" {
		return c.opts.DatabasePath
	}

	cfg, cc := c.classConfig()
	if cc.Path != "" {
		return cc.Path
	}
	return cfg.DefaultDatabasePath(c.name, c.storageType())
}

func (c *controller) format() dsd.SerializationFormat {
	if c.opts.Format != dsd.AUTO {
		return c.opts.Format
	}
	_, cc := c.classConfig()
	format, ok := dsd.ParseSerializationFormat(cc.Format)
	if !ok || format == dsd.AUTO {
		return dsd.DefaultSerializationFormat
	}
	return format
}

// backend returns the memory or the disk backend of the class.
func (c *controller) backend(inMemory bool) (storage.Interface, error) {
	if inMemory {
		return c.memory, nil
	}
	return c.getDisk()
}

func (c *controller) getDisk() (storage.Interface, error) {
	if !initialized.IsSet() {
		return nil, ErrNotInitialized
	}

	c.diskLock.Lock()
	defer c.diskLock.Unlock()

	if c.disk != nil {
		return c.disk, nil
	}

	_, cc := c.classConfig()
	storageType := c.storageType()
	location := c.databasePath()
	disk, err := storage.StartDatabase(c.name, storageType, location, &storage.Options{
		Format:   c.format(),
		Compress: *cc.Compress,
	})
	if err != nil {
		storageErrors(c.name, backendDisk).Inc()
		return nil, fmt.Errorf("%w: could not start database %s (type %s): %w", ErrStorageUnavailable, c.name, storageType, err)
	}

	log.Debugf("database: started %s database of %s at %s", storageType, c.name, location)
	c.disk = disk
	return disk, nil
}

func (c *controller) shutdownDisk() error {
	c.diskLock.Lock()
	defer c.diskLock.Unlock()

	if c.disk == nil {
		return nil
	}
	err := c.disk.Shutdown()
	c.disk = nil
	return err
}

func (c *controller) maintainDisk() error {
	c.diskLock.Lock()
	defer c.diskLock.Unlock()

	maintainer, ok := c.disk.(storage.Maintainer)
	if !ok {
		return nil
	}
	log.Tracef("database: maintaining disk database of %s", c.name)
	return maintainer.Maintain()
}

// scan returns the records of both backends, disk records first. A key
// present in both backends is only returned once, from disk. Backend
// failures are logged and treated as empty backends.
func (c *controller) scan() []*record.Record {
	var records []*record.Record

	disk, err := c.getDisk()
	switch {
	case errors.Is(err, ErrNotInitialized):
		log.Tracef("database: skipping disk database of %s: %s", c.name, err)
	case err != nil:
		log.Warningf("database: %s", err)
	default:
		records, err = disk.Scan()
		if err != nil {
			log.Warningf("database: failed to scan disk database of %s: %s", c.name, err)
			storageErrors(c.name, backendDisk).Inc()
			records = nil
		}
	}

	memRecords, err := c.memory.Scan()
	if err != nil {
		log.Warningf("database: failed to scan memory database of %s: %s", c.name, err)
		storageErrors(c.name, backendMemory).Inc()
		return records
	}
	if len(records) == 0 {
		return memRecords
	}

	onDisk := make(map[string]struct{}, len(records))
	for _, r := range records {
		onDisk[r.Key.ID] = struct{}{}
	}
	for _, r := range memRecords {
		if _, ok := onDisk[r.Key.ID]; ok {
			log.Debugf("database: ignoring memory copy of %s, it is also on disk", r.Key)
			continue
		}
		records = append(records, r)
	}
	return records
}
