package common

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger   zerolog.Logger
	loggerMu sync.RWMutex
)

func init() {
	SetupLogger(os.Stderr, false)
}

// SetupLogger replaces the process wide diagnostic logger. Diagnostics go to
// w (stderr in production) so they never mix with command output.
func SetupLogger(w io.Writer, verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}

func Logger() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := logger
	return &l
}

func DebugPrintf(format string, a ...any) {
	Logger().Debug().Msg(fmt.Sprintf(format, a...))
}
