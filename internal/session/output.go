package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLogboxHeight is the height of a log box in pixels
const DefaultLogboxHeight = 400

// PutLogbox adds a named log box; keepBottom scrolls to new output
func PutLogbox(host Host, name string, height int, keepBottom bool) error {
	l, ok := host.(LogSink)
	if !ok {
		return fmt.Errorf("logbox: %w", ErrUnsupported)
	}
	l.PutLogbox(name, height, keepBottom)
	return nil
}

// LogboxAppend appends text to a log box
func LogboxAppend(host Host, name, text string) error {
	l, ok := host.(LogSink)
	if !ok {
		return fmt.Errorf("logbox: %w", ErrUnsupported)
	}
	l.LogboxAppend(name, text)
	return nil
}

// LogboxClear empties a log box
func LogboxClear(host Host, name string) error {
	l, ok := host.(LogSink)
	if !ok {
		return fmt.Errorf("logbox: %w", ErrUnsupported)
	}
	l.LogboxClear(name)
	return nil
}

// LogboxWriter is an io.Writer appending to a log box
type LogboxWriter struct {
	sink LogSink
	name string
}

// Write implements io.Writer
func (w *LogboxWriter) Write(p []byte) (int, error) {
	w.sink.LogboxAppend(w.name, string(p))
	return len(p), nil
}

// RedirectOutput returns a writer whose output lands in the named log box,
// for use as a command's or logger's output
func RedirectOutput(host Host, name string) (io.Writer, error) {
	l, ok := host.(LogSink)
	if !ok {
		return nil, fmt.Errorf("redirect: %w", ErrUnsupported)
	}
	return &LogboxWriter{sink: l, name: name}, nil
}

// RunShell runs command with sh and streams its combined stdout and stderr
// to out line by line until it exits
func RunShell(ctx context.Context, command string, out io.Writer) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	// children of the shell may keep the pipe open after it is killed
	cmd.WaitDelay = time.Second

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("failed to start %q: %w", command, err)
	}
	logrus.Debugf("session: running %q (pid %d)", command, cmd.Process.Pid)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			if _, err := io.WriteString(out, scanner.Text()+"\n"); err != nil {
				break
			}
		}
		// drain so the command never blocks on a full pipe
		io.Copy(io.Discard, pr)
	}()

	err := cmd.Wait()
	pw.Close()
	wg.Wait()
	if err != nil {
		return fmt.Errorf("command %q: %w", command, err)
	}
	return nil
}
