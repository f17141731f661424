// Copyright Safing ICS Technologies GmbH. Use of this source code is governed by the AGPL license that can be found in the LICENSE file.

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	output     io.Writer = os.Stdout
	useColor             = false
	outputLock sync.Mutex
)

// SetOutput sets the writer log lines are written to. Color codes are only
// used if color is true.
func SetOutput(w io.Writer, color bool) {
	outputLock.Lock()
	defer outputLock.Unlock()

	output = w
	useColor = color
}

func writeLine(line *logLine) {
	outputLock.Lock()
	defer outputLock.Unlock()

	_, _ = fmt.Fprintln(output, formatLine(line, useColor))
}

func writer() {
	defer close(writerDone)

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-shutdownSignal:
			flushBuffer()
			return
		}

		flushBuffer()
	}
}

// flushBuffer writes all the logs!
func flushBuffer() {
	for {
		select {
		case line := <-logBuffer:
			writeLine(line)
		default:
			return
		}
	}
}
