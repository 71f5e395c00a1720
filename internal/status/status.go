// Package status provides Status
package status

//spellchecker:words rewritable zerolog pkglib

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/FAU-CDI/mhdb/pkg/progress"
	"github.com/rs/zerolog"
	"github.com/tkw1536/pkglib/perf"
)

// Status logs what a command is doing, and keeps statistics about the stages it went through.
// Updating the status writes out detailed information to an underlying io.Writer.
//
// Status is safe to access concurrently, however the caller is responsible for only logging to one stage at a time.
//
// A nil Status is valid, and discards any information written to it.
type Status struct {
	m sync.RWMutex // m protects changes to current and all

	logger zerolog.Logger

	// Rewritable, when non-nil, receives a single progress line for the current stage.
	Rewritable *progress.Rewritable

	current StageStats   // current holds information about the current stage
	all     []StageStats // all hold information about the old stages
}

// Options determine how a new Status writes its output.
type Options struct {
	Pretty   bool // use a human-readable console format instead of json lines
	Verbose  bool // include debug messages
	Progress bool // write a progress line for each stage
}

// NewStatus creates a new status which writes output to the given io.Writer.
// If w is nil, returns a nil Status.
func NewStatus(w io.Writer, opts Options) *Status {
	if w == nil {
		return nil
	}

	out := w
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: w}
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	status := &Status{
		logger: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
	if opts.Progress {
		status.Rewritable = &progress.Rewritable{Writer: w, FlushInterval: progress.DefaultFlushInterval}
	}
	return status
}

// Log logs an informational message with the provided key, value field pairs.
// When status is nil, no logging occurs.
func (status *Status) Log(message string, fields ...any) {
	if status == nil {
		return
	}
	status.logger.Info().Fields(fields).Msg(message)
}

// LogDebug logs a debug message with the provided key, value field pairs.
// When status is nil, no logging occurs.
func (status *Status) LogDebug(message string, fields ...any) {
	if status == nil {
		return
	}
	status.logger.Debug().Fields(fields).Msg(message)
}

// LogWarn logs a warning with the provided key, value field pairs.
// Warnings report conditions that were recovered from, such as malformed input.
func (status *Status) LogWarn(message string, fields ...any) {
	if status == nil {
		return
	}
	status.logger.Warn().Fields(fields).Msg(message)
}

// LogError logs an error message containing the provided error and the provided key, value field pairs.
func (status *Status) LogError(message string, err error, fields ...any) {
	if status == nil {
		return
	}
	status.logger.Error().Err(err).Fields(fields).Msg("FAILED " + message)
}

// LogFatal is like LogError followed by os.Exit(1).
// When status is nil, os.Exit(1) is called immediately.
func (status *Status) LogFatal(message string, err error, fields ...any) {
	status.LogError(message, err, fields...)
	os.Exit(1)
}

// Diff returns a performance diff starting at the first, and ending at the last stage.
// If status is nil, a zero diff is returned.
func (status *Status) Diff() perf.Diff {
	// if there is no status, don't do a diff
	if status == nil {
		var zero perf.Diff
		return zero
	}

	status.m.RLock()
	defer status.m.RUnlock()

	min := status.current.Start
	max := status.current.End

	for _, ss := range status.all {
		if min.Time.IsZero() || ss.Start.Time.Before(min.Time) {
			min = ss.Start
		}
		if max.Time.IsZero() || ss.End.Time.After(max.Time) {
			max = ss.End
		}
	}

	return max.Sub(min)
}

// Start starts a new stage, updating the current property.
//
// If st is nil, this function has no effect.
func (st *Status) Start(stage Stage) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	// end the previous stage (if any)
	st.end()

	st.current.Stage = stage
	st.current.Start = perf.Now()

	st.logger.Debug().Str("stage", string(stage)).Msg("start")
}

// End ends the current stage if any.
//
// If st is nil, this function has no effect.
func (st *Status) End() (prev StageStats) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	return st.end()
}

// end implements End.
// st.m must be held for writing.
func (st *Status) end() (prev StageStats) {
	if st.current.Stage != StageInitial {
		st.current.End = perf.Now()
		st.all = append(st.all, st.current)
		prev = st.current
	}

	st.current = StageStats{}

	if prev.Stage == StageInitial {
		return
	}

	// clear the progress line before the next log line
	if st.Rewritable != nil {
		st.Rewritable.Close()
	}

	st.logger.Info().Str("stage", string(prev.Stage)).Int("count", prev.Current).Stringer("took", prev.Diff()).Msg("end")
	return
}

// DoStage is a convenience wrapper to start a new stage, call f, and log the resulting error if any.
//
// If st is nil, immediately invokes f.
func (st *Status) DoStage(stage Stage, f func() error) error {
	if st == nil {
		return f()
	}

	st.Start(stage)
	err := f()
	st.End()

	if err != nil {
		st.LogError("stage", err, "stage", stage)
		return err
	}
	return nil
}

// StageStats holds the stats for a specific stage.
type StageStats struct {
	Stage Stage

	Start perf.Snapshot // At the start of the stage
	End   perf.Snapshot // At the end of the stage

	Current int
	Total   int
}

// SetCT sets the current and total for the current stage.
// A total of zero indicates that the total is not known.
func (st *Status) SetCT(current, total int) {
	if st == nil {
		return
	}

	st.m.Lock()
	defer st.m.Unlock()

	st.current.Current = current
	st.current.Total = total
	st.current.Rewrite(st.Rewritable)
}

// Rewrite writes the current stage to the given rewritable.
func (ss StageStats) Rewrite(r *progress.Rewritable) {
	if r == nil {
		return
	}
	if ss.Current < ss.Total {
		r.Write(fmt.Sprintf("%s: %d/%d", string(ss.Stage), ss.Current, ss.Total))
	} else {
		r.Write(fmt.Sprintf("%s: %d", string(ss.Stage), ss.Current))
	}
}

// Diff returns a diff of the given stage.
func (ss StageStats) Diff() perf.Diff {
	return ss.End.Sub(ss.Start)
}

// Stage represents a stage of a command.
type Stage string

const (
	StageInitial Stage = ""
	StageAdd     Stage = "add"
	StageDelete  Stage = "del"
	StageMove    Stage = "ref"
	StageDump    Stage = "dump"
	StageBuild   Stage = "build"
)
