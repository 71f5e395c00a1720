// Package progress provides Rewritable and Reader
package progress

//spellchecker:words rewritable humanize

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultFlushInterval is a reasonable default flush interval.
const DefaultFlushInterval = time.Second / 30

// Rewritable is a single line of terminal output that is overwritten on every update.
//
// Updates are rate-limited to one every FlushInterval.
type Rewritable struct {
	Writer io.Writer

	FlushInterval  time.Duration // minimum time between flushes of the progress
	lastFlush      time.Time     // last time we flushed
	longestContent int           // longest content ever flushed
	content        string        // current content
}

// Write replaces the content of the line, flushing it unless the last flush was too recent.
func (rw *Rewritable) Write(value string) {
	rw.content = value
	rw.Flush(false)
}

// Flush writes the current content to the underlying writer.
// Unless force is true, nothing happens when the previous flush was less than FlushInterval ago.
func (rw *Rewritable) Flush(force bool) {
	if !(force || time.Since(rw.lastFlush) > rw.FlushInterval) {
		return
	}

	if len(rw.content) >= rw.longestContent {
		rw.longestContent = len(rw.content)
	}

	// blank out whatever remains of a longer previous line
	blank := strings.Repeat(" ", rw.longestContent-len(rw.content))
	fmt.Fprintf(rw.Writer, "\r%s%s", rw.content, blank)

	rw.lastFlush = time.Now()
}

// Close clears the line and returns the cursor to its start.
func (rw *Rewritable) Close() {
	rw.content = ""
	rw.Flush(true)
	fmt.Fprint(rw.Writer, "\r")
	rw.longestContent = 0
}

// Reader counts the bytes and lines read from a list of paths, and reports them to Rewritable.
type Reader struct {
	io.Reader       // Reader to read from
	Bytes     int64 // total number of bytes read (so far)
	Lines     int64 // total number of newlines read (so far)

	*Rewritable // line to report to, possibly shared with other writers
}

func (cr *Reader) Read(bytes []byte) (int, error) {
	count, err := cr.Reader.Read(bytes)
	cr.Bytes += int64(count)
	cr.Lines += int64(strings.Count(string(bytes[:count]), "\n"))
	cr.Rewritable.Write(fmt.Sprintf("Read %s paths (%s)", humanize.Comma(cr.Lines), humanize.Bytes(uint64(cr.Bytes))))
	return count, err
}
