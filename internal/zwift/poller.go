package zwift

import (
	"os"
	"strings"
)

// ///////////////////////////////////////////////
// Poller
// ///////////////////////////////////////////////

// Poller tails the game log by byte offset, returning only lines appended
// since the previous poll. The cursor is monotonically non-decreasing; it is
// reset only by [Poller.Reset], which the orchestrator calls when the game
// client transitions from not-running to running (a fresh session truncates
// the log).
type Poller struct {
	path   string
	offset int64
}

// NewPoller creates a Poller for the log file at path with a zero cursor.
func NewPoller(path string) *Poller {
	return &Poller{path: path}
}

// Offset returns the current byte cursor.
func (p *Poller) Offset() int64 { return p.offset }

// Reset rewinds the cursor to the start of the file.
func (p *Poller) Reset() { p.offset = 0 }

// Poll reads the log file and returns the lines appended since the last
// call, advancing the cursor to the file's current byte length. A missing or
// unreadable file is a transient condition: Poll returns no lines and leaves
// the cursor unchanged.
func (p *Poller) Poll() []string {
	content, err := os.ReadFile(p.path)
	if err != nil {
		return nil
	}
	lines, next := SplitNew(content, p.offset)
	p.offset = next
	return lines
}

// SplitNew computes the newly appended portion of content past offset, splits
// it into lines, and returns the lines plus the new cursor (the total byte
// length). Content shorter than the cursor yields no lines and an unchanged
// cursor; the session-restart case is handled by [Poller.Reset], not here.
func SplitNew(content []byte, offset int64) ([]string, int64) {
	if int64(len(content)) <= offset {
		return nil, offset
	}
	chunk := string(content[offset:])
	var lines []string
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, int64(len(content))
}
