package editor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	infoColor  = color.New(color.FgBlue)
	warnColor  = color.New(color.FgYellow, color.Bold)
	errorColor = color.New(color.FgRed)
	busyColor  = color.New(color.FgCyan)
	askColor   = color.New(color.FgMagenta)
)

// Console is a Notifier and Prompter for a terminal session.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	in        *bufio.Reader
	assumeYes bool
	busy      int
}

// NewConsole writes messages to out and reads answers from in. When
// assumeYes is set, Confirm answers yes without reading.
func NewConsole(out io.Writer, in io.Reader, assumeYes bool) *Console {
	c := &Console{out: out, assumeYes: assumeYes}
	if in != nil {
		c.in = bufio.NewReader(in)
	}
	return c
}

func (c *Console) println(tag *color.Color, label, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", tag.Sprint(label), msg)
}

// Info prints an informational message.
func (c *Console) Info(msg string) { c.println(infoColor, "[INFO]", msg) }

// Warn prints a warning.
func (c *Console) Warn(msg string) { c.println(warnColor, "[WARN]", msg) }

// Error prints an error message.
func (c *Console) Error(msg string) { c.println(errorColor, "[ERROR]", msg) }

// Progress prints title and returns a function that reports completion.
func (c *Console) Progress(title string) func() {
	c.println(busyColor, "[....]", title)
	c.mu.Lock()
	c.busy++
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			c.busy--
			c.mu.Unlock()
		})
	}
}

// Busy reports whether a progress indicator is still shown.
func (c *Console) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy > 0
}

// Confirm asks a yes/no question. Anything but y/yes is a no, and so is
// a closed or missing input.
func (c *Console) Confirm(question string) bool {
	if c.assumeYes {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s [y/N] ", askColor.Sprint("[?]"), question)
	if c.in == nil {
		fmt.Fprintln(c.out)
		return false
	}
	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
