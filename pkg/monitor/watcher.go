package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// CommandWatcher reads a `;`-delimited command script and streams each
// command to a channel, the way pkg/query.Engine consumes a LOAD script or
// a batch file passed on the command line. Unlike the teacher's original
// log-tailing watcher, a command script is read once in full — there is no
// live process appending new commands to watch for.
type CommandWatcher struct {
	filePath string
}

func NewCommandWatcher(filePath string) *CommandWatcher {
	return &CommandWatcher{filePath: filePath}
}

// Start opens the script file and streams its commands, closing the
// channel once the file is exhausted or ctx is done.
func (w *CommandWatcher) Start(ctx context.Context, commands chan<- string) error {
	file, err := os.Open(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to open command script: %w", err)
	}

	go func() {
		defer file.Close()
		StreamCommands(ctx, file, commands)
	}()
	return nil
}

// StreamCommands splits r into `;`-delimited commands, respecting quoted
// string literals so a `;` inside `'...'`/`"..."` doesn't end a command
// early, and sends each non-blank command on commands. It closes commands
// once r is exhausted or ctx is done. CommandWatcher uses this for a script
// file; cmd/dbengine also calls it directly for stdin and a single -sql
// argument, so every command source splits the same way (§6.1).
func StreamCommands(ctx context.Context, r io.Reader, commands chan<- string) {
	defer close(commands)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	inQuote := byte(0)
	emit := func() {
		cmd := strings.TrimSpace(buf.String())
		buf.Reset()
		if cmd == "" {
			return
		}
		select {
		case commands <- cmd:
		case <-ctx.Done():
		}
	}

	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scanner.Text()
		for i := 0; i < len(line); i++ {
			c := line[i]
			switch {
			case inQuote != 0:
				buf.WriteByte(c)
				if c == inQuote {
					inQuote = 0
				}
			case c == '\'' || c == '"':
				inQuote = c
				buf.WriteByte(c)
			case c == ';':
				emit()
			default:
				buf.WriteByte(c)
			}
		}
		buf.WriteByte('\n')
	}
	emit()
}
