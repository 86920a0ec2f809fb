// Package main implements zwiftlog, an offline replay tool for diagnosing
// the activity state machine against saved Zwift log files.
//
// Usage:
//
//	zwiftlog <path-or-glob> [more...]
//
// Each file is folded through the state machine line by line; every line
// that changes the accumulated state is printed with its log timestamp (the
// optional leading "[HH:MM:SS]") and the resulting presence text. The tool
// adds no logic of its own — it only calls the same pure transition function
// the daemon uses.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/zwiftcord/internal/presence"
	"tools.zach/dev/zwiftcord/internal/zwift"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: zwiftlog <path-or-glob> [more...]")
		os.Exit(2)
	}

	files, err := expandArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no files matched")
		os.Exit(1)
	}

	for _, path := range files {
		if len(files) > 1 {
			fmt.Printf("==> %s\n", path)
		}
		if err := replay(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

// expandArgs resolves each argument as a doublestar glob pattern, passing
// plain paths through untouched so a file whose name contains glob
// metacharacters can still be named directly.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			files = append(files, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(filepath.ToSlash(arg))
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}

// replay folds one log file through the state machine, printing each
// transition.
func replay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var state *zwift.State
	lineNo := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		next := zwift.Transition([]string{line}, state)
		if zwift.Equal(next, state) {
			state = next
			continue
		}
		fmt.Printf("%6d  %-10s  %s\n", lineNo, lineTimestamp(line), describe(next))
		state = next
	}
	return scanner.Err()
}

// lineTimestamp returns the "[HH:MM:SS]" prefix of a log line if present,
// or "-" when the line carries no timestamp.
func lineTimestamp(line string) string {
	if len(line) >= 10 && line[0] == '[' && line[9] == ']' {
		if _, err := time.Parse("15:04:05", line[1:9]); err == nil {
			return line[:10]
		}
	}
	return "-"
}

// describe renders a state transition result using the same formatter the
// daemon publishes through.
func describe(st *zwift.State) string {
	if st == nil {
		return "(no activity)"
	}
	act := presence.Build(st, presence.AssetConfig{}, time.Time{})
	parts := []string{st.Kind.String(), act.Details}
	if act.State != "" {
		parts = append(parts, act.State)
	}
	return strings.Join(parts, " | ")
}
