package config

import (
	"github.com/safing/objectbase/formats/dsd"
	"github.com/safing/objectbase/log"
)

// Validate checks the config values. Storage types are checked when the
// database is initialized, as they depend on the registered backends.
func (c *Config) Validate() error {
	if c.DataRoot == "" {
		return newInvalidValueError("dataRoot", c.DataRoot, "must not be empty")
	}
	if log.ParseLevel(c.LogLevel) == 0 {
		return newInvalidValueError("logLevel", c.LogLevel, "unknown log level")
	}
	if _, err := log.ParsePkgLevels(c.PkgLogLevels); err != nil {
		return newInvalidValueError("pkgLogLevels", c.PkgLogLevels, err.Error())
	}
	if c.DefaultStorage == "" {
		return newInvalidValueError("defaultStorage", c.DefaultStorage, "must not be empty")
	}
	if _, ok := dsd.ParseSerializationFormat(c.DefaultFormat); !ok {
		return newInvalidValueError("defaultFormat", c.DefaultFormat, "unknown format")
	}
	if c.CacheSize < 0 {
		return newInvalidValueError("cacheSize", c.CacheSize, "must not be negative")
	}

	for name, class := range c.Classes {
		if class.Format != "" {
			if _, ok := dsd.ParseSerializationFormat(class.Format); !ok {
				return newInvalidValueError("classes."+name+".format", class.Format, "unknown format")
			}
		}
	}
	return nil
}
