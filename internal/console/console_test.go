package console

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/boxlight/internal/diag"
	"github.com/san-kum/boxlight/internal/playback"
)

type fakeTarget struct {
	calls   []string
	fps     float64
	loadErr error
	saveErr error
	dir     string
	steps   []int
}

func (f *fakeTarget) Load(_ context.Context, ref string) error {
	f.calls = append(f.calls, "load "+ref)
	return f.loadErr
}

func (f *fakeTarget) Blend(context.Context) error {
	f.calls = append(f.calls, "blend")
	return nil
}

func (f *fakeTarget) Framerate() float64 { return f.fps }

func (f *fakeTarget) SetFramerate(fps float64) error {
	if fps <= 0 {
		return playback.ErrFramerate
	}
	f.fps = fps
	return nil
}

func (f *fakeTarget) Pause()          { f.calls = append(f.calls, "pause") }
func (f *fakeTarget) Resume()         { f.calls = append(f.calls, "resume") }
func (f *fakeTarget) Reverse()        { f.calls = append(f.calls, "reverse") }
func (f *fakeTarget) FrameStep(n int) { f.steps = append(f.steps, n) }

func (f *fakeTarget) Save() (int, error) { return f.SaveTo("output") }

func (f *fakeTarget) SaveTo(dir string) (int, error) {
	f.dir = dir
	return 3, f.saveErr
}

func (f *fakeTarget) ExportGIF(path string) error {
	f.calls = append(f.calls, "gif "+path)
	return nil
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
		err  error
	}{
		{"", Command{}, nil},
		{"   ", Command{}, nil},
		{"blend", Command{Name: "blend"}, nil},
		{"  BLEND  ", Command{Name: "blend"}, nil},
		{"framerate", Command{Name: "framerate"}, nil},
		{"framerate 30", Command{Name: "framerate", Arg: "30"}, nil},
		{"load scenes/my scene.json", Command{Name: "load", Arg: "scenes/my scene.json"}, nil},
		{"step -3", Command{Name: "step", Arg: "-3"}, nil},
		{"msg hello  world", Command{Name: "msg", Arg: "hello  world"}, nil},
		{"save", Command{Name: "save"}, nil},
		{"load", Command{Name: "load"}, ErrUsage},
		{"gif", Command{Name: "gif"}, ErrUsage},
		{"step two", Command{Name: "step", Arg: "two"}, ErrUsage},
		{"pause now", Command{Name: "pause", Arg: "now"}, ErrUsage},
		{"dance", Command{Name: "dance"}, ErrUnknown},
	}

	for _, tt := range tests {
		got, err := Parse(tt.line)
		if !errors.Is(err, tt.err) {
			t.Errorf("Parse(%q): expected error %v, got %v", tt.line, tt.err, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q): expected %+v, got %+v", tt.line, tt.want, got)
		}
	}
}

func TestFramerateCommand(t *testing.T) {
	tests := []struct {
		line string
		fps  float64
		want []string
	}{
		{"framerate", 60, []string{"Current framerate is 60"}},
		{"framerate 24", 24, []string{"Set framerate to 24fps"}},
		{"framerate 5000", 1000, []string{"Set framerate to 1000fps"}},
		{"framerate 1", 1, []string{"Set framerate to 1fps"}},
		{"framerate 0", 60, []string{"Invalid framerate '0'", "Current framerate is 60"}},
		{"framerate -5", 60, []string{"Invalid framerate '-5'", "Current framerate is 60"}},
		{"framerate fast", 60, []string{"Invalid framerate 'fast'", "Current framerate is 60"}},
	}

	for _, tt := range tests {
		target := &fakeTarget{fps: 60}
		log := diag.NewBuffer(8)
		Exec(context.Background(), tt.line, target, log)

		if target.fps != tt.fps {
			t.Errorf("%q: expected %g fps, got %g", tt.line, tt.fps, target.fps)
		}
		if got := log.Lines(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: expected %q, got %q", tt.line, tt.want, got)
		}
	}
}

func TestRunDispatch(t *testing.T) {
	target := &fakeTarget{fps: 60}
	log := diag.NewBuffer(32)
	ctx := context.Background()

	for _, line := range []string{"pause", "resume", "reverse", "blend", "load preset:drop", "gif out.gif", "step", "step -2"} {
		if Exec(ctx, line, target, log) {
			t.Fatalf("%q should not quit", line)
		}
	}

	want := []string{"pause", "resume", "reverse", "blend", "load preset:drop", "gif out.gif"}
	if !reflect.DeepEqual(target.calls, want) {
		t.Errorf("expected calls %q, got %q", want, target.calls)
	}
	if !reflect.DeepEqual(target.steps, []int{1, -2}) {
		t.Errorf("expected steps [1 -2], got %v", target.steps)
	}
	if got := log.Lines(); !reflect.DeepEqual(got, []string{"Done.", "Wrote out.gif"}) {
		t.Errorf("unexpected output %q", got)
	}
}

func TestSaveCommand(t *testing.T) {
	target := &fakeTarget{}
	log := diag.NewBuffer(8)
	ctx := context.Background()

	Exec(ctx, "save", target, log)
	if target.dir != "output" {
		t.Errorf("expected default dir, got %q", target.dir)
	}
	Exec(ctx, "save renders/a", target, log)
	if target.dir != "renders/a" {
		t.Errorf("expected renders/a, got %q", target.dir)
	}

	target.saveErr = errors.New("disk full")
	Exec(ctx, "save", target, log)

	want := []string{"Saved.", "Saved.", "Save failed: disk full"}
	if got := log.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHelpAndMsg(t *testing.T) {
	log := diag.NewBuffer(8)
	ctx := context.Background()
	Exec(ctx, "help", &fakeTarget{}, log)
	Exec(ctx, "msg rendering done", &fakeTarget{}, log)

	want := []string{
		"Available commands:",
		"blend framerate gif load msg pause resume reverse save step quit",
		"rendering done",
	}
	if got := log.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestQuitAndErrors(t *testing.T) {
	log := diag.NewBuffer(8)
	ctx := context.Background()
	target := &fakeTarget{}

	if !Exec(ctx, "quit", target, log) {
		t.Error("expected quit to stop")
	}
	if Exec(ctx, "dance", target, log) {
		t.Error("unknown command should not quit")
	}
	if got := log.Tail(1); len(got) != 1 || got[0] != "unknown command: dance" {
		t.Errorf("expected unknown command report, got %q", got)
	}
	if Run(ctx, Command{}, target, log) {
		t.Error("empty command should not quit")
	}
}
