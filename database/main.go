package database

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/tevino/abool"

	"github.com/safing/objectbase/config"
	"github.com/safing/objectbase/database/storage"
	"github.com/safing/objectbase/database/storage/filetable"
	"github.com/safing/objectbase/log"
	"github.com/safing/objectbase/utils"

	// Register storage backends.
	_ "github.com/safing/objectbase/database/storage/badger"
	_ "github.com/safing/objectbase/database/storage/bbolt"
	_ "github.com/safing/objectbase/database/storage/hashmap"
)

const memoryStorageType = "hashmap"

var (
	initialized = abool.NewBool(false)
	initLock    sync.Mutex

	activeConfig     *config.Config
	activeConfigLock sync.RWMutex
)

// Initialize sets up the database system with the given config. Disk
// databases are started on first use. A nil config means config.Default().
func Initialize(cfg *config.Config) error {
	initLock.Lock()
	defer initLock.Unlock()

	if initialized.IsSet() {
		return ErrInitialized
	}

	if cfg == nil {
		cfg = config.Default()
	}
	err := cfg.Validate()
	if err != nil {
		return err
	}
	if !storage.IsRegistered(cfg.DefaultStorage) {
		return fmt.Errorf("%w: %s", ErrInvalidStorageType, cfg.DefaultStorage)
	}
	for name, class := range cfg.Classes {
		if class.Storage != "" && !storage.IsRegistered(class.Storage) {
			return fmt.Errorf("%w: %s (class %s)", ErrInvalidStorageType, class.Storage, name)
		}
	}

	log.SetLogLevel(log.ParseLevel(cfg.LogLevel))
	pkgLevels, _ := log.ParsePkgLevels(cfg.PkgLogLevels)
	if len(pkgLevels) > 0 {
		log.SetPkgLevels(pkgLevels)
	} else {
		log.UnSetPkgLevels()
	}

	databasesDir := filepath.Join(cfg.DataRoot, "databases")
	err = utils.EnsureDirectory(databasesDir, 0o0700)
	if err != nil {
		return fmt.Errorf("could not create/open database directory (%s): %w", databasesDir, err)
	}

	filetable.SetCacheSize(cfg.CacheSize)

	activeConfigLock.Lock()
	activeConfig = cfg
	activeConfigLock.Unlock()

	initialized.Set()
	log.Infof("database: initialized at %s", cfg.DataRoot)
	return nil
}

// Shutdown shuts down all disk databases. Memory tables are kept for the
// lifetime of the process, the database may be initialized again.
func Shutdown() error {
	initLock.Lock()
	defer initLock.Unlock()

	if !initialized.SetToIf(true, false) {
		return ErrNotInitialized
	}

	var result *multierror.Error
	for _, c := range allControllers() {
		if err := c.shutdownDisk(); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return result.ErrorOrNil()
}

// Maintain runs the housekeeping of all started disk databases that support
// it. Disk databases that were not used yet are not started.
func Maintain() error {
	if !initialized.IsSet() {
		return ErrNotInitialized
	}

	var result *multierror.Error
	for _, c := range allControllers() {
		if err := c.maintainDisk(); err != nil {
			storageErrors(c.name, backendDisk).Inc()
			result = multierror.Append(result, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return result.ErrorOrNil()
}

// getConfig returns the active config, or the default config if the
// database is not initialized.
func getConfig() *config.Config {
	activeConfigLock.RLock()
	defer activeConfigLock.RUnlock()

	if activeConfig == nil {
		return config.Default()
	}
	return activeConfig
}
