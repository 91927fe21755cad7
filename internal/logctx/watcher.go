package logctx

import (
	"fmt"
	"gelfgate/internal/global"
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI colors for severity markers when output is an interactive terminal
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
)

// Hold main thread exit until logger is finished its work
func (logger *Logger) Wait() {
	logger.wg.Wait()
}

// Wake signals/broadcasts to any goroutines waiting on the condition variable
func (logger *Logger) Wake() {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()
	logger.cond.Broadcast()
}

// Snapshot of currently buffered events, formatted (only useful without a running watcher)
func (logger *Logger) GetFormattedLogLines() (lines []string) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for _, event := range logger.queue {
		lines = append(lines, event.Format())
	}
	return
}

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	// Colorize severity only when writing to an interactive terminal
	var colorize bool
	if file, isFile := output.(*os.File); isFile {
		colorize = term.IsTerminal(int(file.Fd()))
	}

	go func() {
		defer logger.wg.Done()

		for {
			logger.mutex.Lock()

			// If done and queue is empty, exit
			if len(logger.queue) == 0 {
				select {
				case <-logger.Done:
					logger.mutex.Unlock()
					return
				default:
				}
			}

			// Wait for events
			for len(logger.queue) == 0 {
				select {
				case <-logger.Done:
					logger.mutex.Unlock()
					return
				default:
					logger.cond.Wait()
				}
			}

			// Pop one event from the front of the queue
			event := logger.queue[0]
			logger.queue = logger.queue[1:]
			logger.mutex.Unlock()

			if colorize {
				switch event.Severity {
				case global.ErrorLog:
					event.Severity = colorRed + event.Severity + colorReset
				case global.WarnLog:
					event.Severity = colorYellow + event.Severity + colorReset
				}
			}

			fmt.Fprintf(output, "%s", event.Format())
		}
	}()
}
