// Package telemetry provides the --verbose cascade tracing the original
// tool's debug prints around checked_free_name/swap resolution offered.
// The teacher itself logs with fmt.Print*; this borrows logrus from the
// rest of the retrieval pack for structured debug records instead.
package telemetry

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry scoped to planner cascade tracing.
type Logger struct {
	entry *logrus.Entry
}

// New builds a Logger writing to out at debug level when verbose is set,
// warn level otherwise (cascade traces are silently dropped).
func New(out io.Writer, verbose bool) *Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return &Logger{entry: logrus.NewEntry(log).WithField("component", "planner")}
}

// Trace matches planner.Engine.Trace's signature, so a Logger can be
// bound directly: eng.Trace = telemetry.New(os.Stderr, verbose).Trace
func (l *Logger) Trace(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}
