package progress

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileLog appends events as JSON lines to a local file.
type FileLog struct {
	path string
}

// NewFileLog creates a file sink at path, creating the parent directory.
func NewFileLog(path string) (*FileLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &FileLog{path: path}, nil
}

func (f *FileLog) Name() string { return "FileLog" }

func (f *FileLog) Update(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open progress log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append progress log: %w", err)
	}
	return nil
}

// Console prints one line per event to a writer.
type Console struct {
	Out io.Writer
}

// NewConsole creates a console sink writing to out (stdout when nil).
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{Out: out}
}

func (c *Console) Name() string { return "Console" }

func (c *Console) Update(event Event) error {
	summary := event.Summary
	if summary == "" {
		summary = "No details"
	}
	_, err := fmt.Fprintf(c.Out, "[%s] %s: %s\n",
		event.Timestamp.Format("2006-01-02 15:04:05"), event.Type, summary)
	return err
}
