// Package console parses and runs the one-line commands typed into the
// player's console or listed in a script.
package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/playback"
)

var (
	ErrUnknown = errors.New("unknown command")
	ErrUsage   = errors.New("bad arguments")
)

// Names lists every command, in the order help prints them.
var Names = []string{"blend", "framerate", "gif", "load", "msg", "pause", "resume", "reverse", "save", "step", "quit"}

// Command is one parsed line. Arg is the untrimmed remainder after the
// command name, with surrounding blanks removed.
type Command struct {
	Name string
	Arg  string
}

func (c Command) String() string {
	if c.Arg == "" {
		return c.Name
	}
	return c.Name + " " + c.Arg
}

// Target is the control surface commands act on.
type Target interface {
	Load(ctx context.Context, ref string) error
	Blend(ctx context.Context) error
	Framerate() float64
	SetFramerate(fps float64) error
	Pause()
	Resume()
	Reverse()
	FrameStep(n int)
	Save() (int, error)
	SaveTo(dir string) (int, error)
	ExportGIF(path string) error
}

// Parse splits line into a command and its argument. A blank line parses to
// the zero Command with no error.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}
	name, arg, _ := strings.Cut(line, " ")
	cmd := Command{Name: strings.ToLower(name), Arg: strings.TrimSpace(arg)}

	switch cmd.Name {
	case "help", "blend", "pause", "resume", "reverse", "quit":
		if cmd.Arg != "" {
			return cmd, fmt.Errorf("%w: %s takes no argument", ErrUsage, cmd.Name)
		}
	case "load", "gif":
		if cmd.Arg == "" {
			return cmd, fmt.Errorf("%w: %s needs a path", ErrUsage, cmd.Name)
		}
	case "step":
		if cmd.Arg != "" {
			if _, err := strconv.Atoi(cmd.Arg); err != nil {
				return cmd, fmt.Errorf("%w: step count %q", ErrUsage, cmd.Arg)
			}
		}
	case "framerate", "save", "msg":
	default:
		return cmd, fmt.Errorf("%w: %s", ErrUnknown, cmd.Name)
	}
	return cmd, nil
}

// Run executes cmd against t and reports through sink. It returns true
// when the command asks the program to quit.
func Run(ctx context.Context, cmd Command, t Target, sink diag.Sink) bool {
	sink = diag.Or(sink)

	switch cmd.Name {
	case "":
	case "help":
		sink.Printf("Available commands:")
		sink.Printf("%s", strings.Join(Names, " "))
	case "blend":
		if err := t.Blend(ctx); err != nil {
			sink.Printf("Blend failed: %v", err)
			break
		}
		sink.Printf("Done.")
	case "framerate":
		framerate(cmd.Arg, t, sink)
	case "load":
		// Load reports success or failure itself.
		_ = t.Load(ctx, cmd.Arg)
	case "pause":
		t.Pause()
	case "resume":
		t.Resume()
	case "reverse":
		t.Reverse()
	case "step":
		n := 1
		if cmd.Arg != "" {
			n, _ = strconv.Atoi(cmd.Arg)
		}
		t.FrameStep(n)
	case "save":
		var err error
		if cmd.Arg == "" {
			_, err = t.Save()
		} else {
			_, err = t.SaveTo(cmd.Arg)
		}
		if err != nil {
			sink.Printf("Save failed: %v", err)
			break
		}
		sink.Printf("Saved.")
	case "gif":
		if err := t.ExportGIF(cmd.Arg); err != nil {
			sink.Printf("GIF export failed: %v", err)
			break
		}
		sink.Printf("Wrote %s", cmd.Arg)
	case "msg":
		sink.Printf("%s", cmd.Arg)
	case "quit":
		return true
	default:
		sink.Printf("Unknown command '%s'", cmd.Name)
	}
	return false
}

// Exec parses and runs one line. Parse errors are reported through sink.
func Exec(ctx context.Context, line string, t Target, sink diag.Sink) bool {
	cmd, err := Parse(line)
	if err != nil {
		diag.Or(sink).Printf("%v", err)
		return false
	}
	return Run(ctx, cmd, t, sink)
}

// framerate with no argument prints the current rate. Positive integer
// arguments are clamped to MaxFramerate; anything else is rejected.
func framerate(arg string, t Target, sink diag.Sink) {
	if arg != "" {
		n, err := strconv.Atoi(arg)
		if err == nil && n > 0 {
			n = min(n, int(playback.MaxFramerate))
			if t.SetFramerate(float64(n)) == nil {
				sink.Printf("Set framerate to %dfps", n)
				return
			}
		}
		sink.Printf("Invalid framerate '%s'", arg)
	}
	sink.Printf("Current framerate is %d", int(t.Framerate()))
}
