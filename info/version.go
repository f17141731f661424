package info

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
)

var (
	name    = "objectbase"
	version = "dev build"
	license = "[license unknown]"

	info     *Info
	loadInfo sync.Once
)

// Info holds the meta information of the running program.
type Info struct {
	Name    string
	Version string
	License string

	GoVersion  string
	Module     string
	Commit     string
	CommitTime string
	Dirty      bool
}

// Set sets meta information via the main routine. Call it before anything
// reads the info.
func Set(setName string, setVersion string, setLicenseName string) {
	if setName != "" {
		name = setName
	}
	if setVersion != "" {
		version = setVersion
	}
	if setLicenseName != "" {
		license = setLicenseName
	}
}

// GetInfo returns all the meta information about the program.
func GetInfo() *Info {
	loadInfo.Do(func() {
		info = &Info{
			Name:       name,
			Version:    version,
			License:    license,
			GoVersion:  runtime.Version(),
			Commit:     "[commit unknown]",
			CommitTime: "[commit time unknown]",
		}

		buildInfo, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		info.Module = buildInfo.Main.Path
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Commit = setting.Value
			case "vcs.time":
				info.CommitTime = setting.Value
			case "vcs.modified":
				info.Dirty = setting.Value == "true"
			}
		}
	})

	return info
}

// Version returns the short version string. Builds from a modified
// working tree are marked with a star.
func Version() string {
	info := GetInfo()

	if info.Dirty {
		return info.Version + "*"
	}
	return info.Version
}

// FullVersion returns the full and detailed version string.
func FullVersion() string {
	info := GetInfo()
	builder := new(strings.Builder)

	fmt.Fprintf(builder, "%s %s\n", info.Name, Version())
	fmt.Fprintf(builder, "\nbuilt with %s (%s) %s/%s\n", info.GoVersion, runtime.Compiler, runtime.GOOS, runtime.GOARCH)
	if info.Module != "" {
		fmt.Fprintf(builder, "  from %s\n", info.Module)
	}
	fmt.Fprintf(builder, "\ncommit %s\n", info.Commit)
	fmt.Fprintf(builder, "  at %s\n", info.CommitTime)
	fmt.Fprintf(builder, "\nLicensed under the %s license.", info.License)

	return builder.String()
}
