package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, etc.)
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

var (
	infoPrefix  = color.New(color.FgCyan).SprintFunc()
	errorPrefix = color.New(color.FgRed, color.Bold).SprintFunc()
	debugPrefix = color.New(color.Faint).SprintFunc()
)

// ConsoleLogger writes human-readable logs to stderr so stdout stays free
// for the command output (and --json). Debug messages are dropped unless
// verbose is set.
type ConsoleLogger struct {
	out     io.Writer
	verbose bool
}

func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr, verbose: verbose}
}

// NewWriterLogger logs to w. Used by tests.
func NewWriterLogger(w io.Writer, verbose bool) *ConsoleLogger {
	return &ConsoleLogger{out: w, verbose: verbose}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	fmt.Fprintf(c.out, infoPrefix("[INFO]")+" "+msg+"\n", args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(c.out, errorPrefix("[ERROR]")+" "+msg+"\n", args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if !c.verbose {
		return
	}
	fmt.Fprintf(c.out, debugPrefix("[DEBUG]")+" "+msg+"\n", args...)
}

// SilentLogger discards all log messages.
// Used when serving MCP over stdio, where any stray output corrupts the protocol.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
