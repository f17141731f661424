// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tevino/abool"
)

// concept
/*
- Logging function:
  - check if package-based levelling enabled
    - if yes, check if level is active on this package
  - check if level is active
  - send data to backend via big buffered channel
- Backend:
  - wait until there are logs to write
  - write logs to the configured output
- Channel overbuffering protection:
  - if buffer is full, trigger write
- Before Start and after Shutdown:
  - lines are written directly, so library users never lose warnings
*/

// Severity describes a log level.
type Severity uint32

type logLine struct {
	msg       string
	level     Severity
	timestamp time.Time
	file      string
	line      int
}

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

var (
	logBuffer             chan *logLine
	forceEmptyingOfBuffer = make(chan struct{}, 4)

	logLevelInt = uint32(InfoLevel)
	logLevel    = &logLevelInt

	pkgLevelsActive = abool.NewBool(false)
	pkgLevels       = make(map[string]Severity)
	pkgLevelsLock   sync.Mutex

	logsWaiting     = make(chan struct{}, 1)
	logsWaitingFlag = abool.NewBool(false)

	shutdownSignal chan struct{}
	writerDone     chan struct{}

	started    = abool.NewBool(false)
	startLock  sync.Mutex
	errStarted = errors.New("logging already started")
)

// SetPkgLevels sets individual log levels for packages.
func SetPkgLevels(levels map[string]Severity) {
	pkgLevelsLock.Lock()
	pkgLevels = levels
	pkgLevelsLock.Unlock()
	pkgLevelsActive.Set()
}

// UnSetPkgLevels removes all individual log levels for packages.
func UnSetPkgLevels() {
	pkgLevelsActive.UnSet()
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// SetLogLevel sets a new log level.
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))
}

// ParseLevel returns the level severity of a log level name.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warning", "warn":
		return WarningLevel
	case "error":
		return ErrorLevel
	case "critical":
		return CriticalLevel
	}
	return 0
}

// ParsePkgLevels parses a package level definition like "database=trace,filetable=debug".
func ParsePkgLevels(definition string) (map[string]Severity, error) {
	levels := make(map[string]Severity)
	if definition == "" {
		return levels, nil
	}

	for _, pair := range strings.Split(definition, ",") {
		splitted := strings.Split(pair, "=")
		if len(splitted) != 2 {
			return nil, fmt.Errorf("invalid package log level %q", pair)
		}
		pkgLevel := ParseLevel(splitted[1])
		if pkgLevel == 0 {
			return nil, fmt.Errorf("invalid log level %q for package %s", splitted[1], splitted[0])
		}
		levels[strings.TrimSpace(splitted[0])] = pkgLevel
	}
	return levels, nil
}

// Start starts the background log writer.
func Start() error {
	startLock.Lock()
	defer startLock.Unlock()

	if started.IsSet() {
		return errStarted
	}

	logBuffer = make(chan *logLine, 1024)
	shutdownSignal = make(chan struct{})
	writerDone = make(chan struct{})
	started.Set()

	go writer()
	return nil
}

// Shutdown writes remaining log lines and stops the background writer.
func Shutdown() {
	startLock.Lock()
	defer startLock.Unlock()

	if !started.SetToIf(true, false) {
		return
	}
	close(shutdownSignal)
	<-writerDone
}
