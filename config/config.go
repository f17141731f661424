package config

import (
	"path/filepath"
)

// Defaults.
const (
	DefaultDataRoot  = "data"
	DefaultLogLevel  = "info"
	DefaultStorage   = "filetable"
	DefaultFormat    = "json"
	DefaultCacheSize = 64
)

// Config is the objectbase configuration.
type Config struct {
	// DataRoot is the directory holding the default database locations.
	DataRoot string `json:"dataRoot" env:"OBJECTBASE_DATA_ROOT"`
	// LogLevel is the global log level.
	LogLevel string `json:"logLevel" env:"OBJECTBASE_LOG_LEVEL"`
	// PkgLogLevels overrides the log level per package, eg. "filetable=trace".
	PkgLogLevels string `json:"pkgLogLevels,omitempty" env:"OBJECTBASE_PKG_LOG_LEVELS"`
	// DefaultStorage is the disk storage type of classes without their own setting.
	DefaultStorage string `json:"defaultStorage" env:"OBJECTBASE_STORAGE"`
	// DefaultFormat is the serialization format of classes without their own setting.
	DefaultFormat string `json:"defaultFormat" env:"OBJECTBASE_FORMAT"`
	// Compress enables compression of table files.
	Compress bool `json:"compress,omitempty"`
	// CacheSize is the number of decoded table files kept in memory.
	CacheSize int `json:"cacheSize"`

	Classes map[string]ClassConfig `json:"classes,omitempty"`
}

// ClassConfig overrides settings for a single class.
type ClassConfig struct {
	Path     string `json:"path,omitempty"`
	Storage  string `json:"storage,omitempty"`
	Format   string `json:"format,omitempty"`
	Compress *bool  `json:"compress,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataRoot:       DefaultDataRoot,
		LogLevel:       DefaultLogLevel,
		DefaultStorage: DefaultStorage,
		DefaultFormat:  DefaultFormat,
		CacheSize:      DefaultCacheSize,
	}
}

// Class returns the settings of the given class with all defaults applied.
// The path is left empty if the class has none configured.
func (c *Config) Class(name string) ClassConfig {
	cc := c.Classes[name]

	if cc.Storage == "" {
		cc.Storage = c.DefaultStorage
	}
	if cc.Format == "" {
		cc.Format = c.DefaultFormat
	}
	if cc.Compress == nil {
		compress := c.Compress
		cc.Compress = &compress
	}
	return cc
}

// DefaultDatabasePath returns the database location of a class that has no
// configured path: <dataRoot>/databases/<class>.<storage>
func (c *Config) DefaultDatabasePath(class, storageType string) string {
	return filepath.Join(c.DataRoot, "databases", class+"."+storageType)
}
