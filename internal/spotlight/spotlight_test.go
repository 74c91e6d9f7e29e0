package spotlight

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/quillon/mdgate/internal/activity"
	"github.com/quillon/mdgate/internal/config"
	"github.com/quillon/mdgate/internal/guard"
	"github.com/quillon/mdgate/internal/runner"
)

// fakeExecer satisfies Execer with canned responses and counts every
// spawn attempt, so tests can prove an operation never reached the
// process layer.
type fakeExecer struct {
	mu      sync.Mutex
	spawns  int
	calls   []runner.Invocation
	respond func(inv runner.Invocation) (*runner.Result, error)
}

func (f *fakeExecer) Run(_ context.Context, inv runner.Invocation) (*runner.Result, error) {
	f.mu.Lock()
	f.spawns++
	f.calls = append(f.calls, inv)
	f.mu.Unlock()
	if f.respond == nil {
		return &runner.Result{}, nil
	}
	return f.respond(inv)
}

func (f *fakeExecer) Stream(_ context.Context, inv runner.Invocation) (*runner.Stream, error) {
	f.mu.Lock()
	f.spawns++
	f.calls = append(f.calls, inv)
	f.mu.Unlock()
	return nil, errors.New("fake execer does not stream")
}

func (f *fakeExecer) spawnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spawns
}

func (f *fakeExecer) lastCall(t *testing.T) runner.Invocation {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no invocation recorded")
	}
	return f.calls[len(f.calls)-1]
}

type staticGate bool

func (g staticGate) Supported() bool { return bool(g) }

func newTestClient(t *testing.T, respond func(runner.Invocation) (*runner.Result, error), opts ...Option) (*Client, *fakeExecer) {
	t.Helper()
	fe := &fakeExecer{respond: respond}
	c := New(&config.Config{}, fe, guard.NewPolicy(), activity.NewLog(10), zerolog.Nop(), opts...)
	return c, fe
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", kind)
	}
	got, ok := KindOf(err)
	if !ok {
		t.Fatalf("error %v carries no kind, want %v", err, kind)
	}
	if got != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, kind, err)
	}
}

func TestSearch_ReturnsPaths(t *testing.T) {
	c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{Stdout: []byte("/a/one.txt\n/b/two.txt\n")}, nil
	})

	got, err := c.Search(context.Background(), "kMDItemFSName == 'x'", []string{"/tmp"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"/a/one.txt", "/b/two.txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}

	inv := fe.lastCall(t)
	if inv.Program != "mdfind" {
		t.Errorf("Program = %q, want mdfind", inv.Program)
	}
	wantArgs := []string{"kMDItemFSName == 'x'", "-onlyin", "/tmp"}
	if !reflect.DeepEqual(inv.Args, wantArgs) {
		t.Errorf("Args = %v, want %v", inv.Args, wantArgs)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.Search(context.Background(), "   ", nil)
	wantKind(t, err, KindInvalidArgument)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestSearch_ProtectedScopeNeverSpawns(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.Search(context.Background(), "query", []string{"/Volumes/B1 8TBPii/docs"})
	wantKind(t, err, KindSafety)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestSearchLive_ProtectedScopeNeverSpawns(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.SearchLive(context.Background(), "query", []string{"/Volumes/B1 8TBPii"}, func(runner.Line) {})
	wantKind(t, err, KindSafety)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestSearch_NonZeroExit(t *testing.T) {
	c, _ := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{ExitCode: 1, Stderr: []byte("query malformed")}, nil
	})

	_, err := c.Search(context.Background(), "broken(", nil)
	wantKind(t, err, KindExit)
	var fe *Error
	if !errors.As(err, &fe) || fe.ExitCode != 1 {
		t.Errorf("ExitCode not carried on error: %v", err)
	}
	if !strings.Contains(err.Error(), "query malformed") {
		t.Errorf("error %q should carry stderr detail", err)
	}
}

func TestSearch_TimeoutMapped(t *testing.T) {
	c, _ := newTestClient(t, func(inv runner.Invocation) (*runner.Result, error) {
		return nil, &runner.TimeoutError{Invocation: inv, Stdout: []byte("partial")}
	})

	_, err := c.Search(context.Background(), "query", nil)
	wantKind(t, err, KindTimeout)
	var fe *Error
	if !errors.As(err, &fe) || fe.Stdout != "partial" {
		t.Errorf("partial output not carried: %+v", err)
	}
}

func TestStatus_ParsesEnabled(t *testing.T) {
	for name, out := range map[string]string{
		"single line": "/: Indexing enabled.\n",
		"two lines":   "/:\n\tIndexing enabled.\n",
	} {
		t.Run(name, func(t *testing.T) {
			c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
				return &runner.Result{Stdout: []byte(out)}, nil
			})

			st, err := c.Status(context.Background(), "/")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !st.Indexed || st.State != StateEnabled {
				t.Errorf("status = %+v, want indexed/enabled", st)
			}
			inv := fe.lastCall(t)
			if inv.Program != "mdutil" || !reflect.DeepEqual(inv.Args, []string{"-s", "/"}) {
				t.Errorf("invocation = %v %v, want mdutil -s /", inv.Program, inv.Args)
			}
		})
	}
}

func TestStatus_ParsesDisabledAndUnknown(t *testing.T) {
	tests := map[string]struct {
		out  string
		want State
	}{
		"disabled":     {"/Volumes/USB:\n\tIndexing disabled.\n", StateDisabled},
		"unparseable":  {"/Volumes/USB:\n\tError: unexpected indexing state.\n", StateUnknown},
		"empty output": {"", StateUnknown},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
				return &runner.Result{Stdout: []byte(tc.out)}, nil
			})

			st, err := c.Status(context.Background(), "/Volumes/USB")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if st.State != tc.want {
				t.Errorf("State = %v, want %v", st.State, tc.want)
			}
			if st.Indexed {
				t.Error("Indexed = true, want false")
			}
		})
	}
}

func TestStatus_ProtectedVolume(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.Status(context.Background(), "/Volumes/B1 8TBPii")
	wantKind(t, err, KindSafety)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestVolumes_UnsupportedPlatform(t *testing.T) {
	c, fe := newTestClient(t, nil, WithGate(staticGate(false)))

	got, err := c.Volumes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("Volumes = %v, want nil on unsupported platform", got)
	}
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestManage_ActionArguments(t *testing.T) {
	tests := map[string]struct {
		action string
		want   []string
	}{
		"enable":  {"enable", []string{"-i", "on", "/Volumes/USB"}},
		"disable": {"disable", []string{"-i", "off", "/Volumes/USB"}},
		"erase":   {"erase", []string{"-E", "/Volumes/USB"}},
		"rebuild": {"rebuild", []string{"-L", "/Volumes/USB"}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
				return &runner.Result{Stdout: []byte("done\n")}, nil
			}, WithGate(staticGate(true)))

			out, err := c.Manage(context.Background(), tc.action, "/Volumes/USB")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != "done" {
				t.Errorf("output = %q, want %q", out, "done")
			}
			inv := fe.lastCall(t)
			if !reflect.DeepEqual(inv.Args, tc.want) {
				t.Errorf("Args = %v, want %v", inv.Args, tc.want)
			}
			if inv.Timeout != manageTimeout {
				t.Errorf("Timeout = %v, want %v", inv.Timeout, manageTimeout)
			}
		})
	}
}

func TestManage_InvalidAction(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.Manage(context.Background(), "defragment", "/Volumes/USB")
	wantKind(t, err, KindInvalidArgument)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestManage_ProtectionPrecedesValidation(t *testing.T) {
	c, fe := newTestClient(t, nil)

	// Even a nonsense action on a protected volume is refused as a
	// safety violation, never as an argument error.
	_, err := c.Manage(context.Background(), "defragment", "/Volumes/B1 8TBPii")
	wantKind(t, err, KindSafety)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestManage_UnsupportedPlatformStillRuns(t *testing.T) {
	c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{}, nil
	}, WithGate(staticGate(false)))

	if _, err := c.Manage(context.Background(), "enable", "/Volumes/USB"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := fe.spawnCount(); n != 1 {
		t.Errorf("spawns = %d, want 1", n)
	}
}

const samplePlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>kMDItemDisplayName</key>
	<string>report.txt</string>
	<key>kMDItemContentType</key>
	<string>public.plain-text</string>
</dict>
</plist>
`

func TestMetadata_ParsesAttributes(t *testing.T) {
	c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{Stdout: []byte(samplePlist)}, nil
	})

	attrs, err := c.Metadata(context.Background(), "/tmp/report.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attrs["kMDItemDisplayName"] != "report.txt" {
		t.Errorf("kMDItemDisplayName = %v, want report.txt", attrs["kMDItemDisplayName"])
	}
	if len(attrs) != 2 {
		t.Errorf("len(attrs) = %d, want 2", len(attrs))
	}

	inv := fe.lastCall(t)
	if inv.Program != "mdls" || !reflect.DeepEqual(inv.Args, []string{"-plist", "-", "/tmp/report.txt"}) {
		t.Errorf("invocation = %v %v, want mdls -plist - <path>", inv.Program, inv.Args)
	}
}

func TestMetadata_UnknownPathYieldsEmptyMap(t *testing.T) {
	for name, res := range map[string]*runner.Result{
		"enoent":    {ExitCode: 1, Stderr: []byte("/gone: No such file or directory\n")},
		"not found": {Stdout: []byte("Can't find /gone\n")},
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
				return res, nil
			})

			attrs, err := c.Metadata(context.Background(), "/gone")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if attrs == nil || len(attrs) != 0 {
				t.Errorf("attrs = %v, want empty non-nil map", attrs)
			}
		})
	}
}

func TestMetadata_ParseFailure(t *testing.T) {
	c, _ := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{Stdout: []byte("this is not a plist")}, nil
	})

	_, err := c.Metadata(context.Background(), "/tmp/report.txt")
	wantKind(t, err, KindParse)
}

func TestMetadata_ProtectedPath(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.Metadata(context.Background(), "/Volumes/B1 8TBPii/report.txt")
	wantKind(t, err, KindSafety)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestLogShow_Arguments(t *testing.T) {
	c, fe := newTestClient(t, func(runner.Invocation) (*runner.Result, error) {
		return &runner.Result{Stdout: []byte("line one\nline two\n")}, nil
	})

	lines, err := c.LogShow(context.Background(), `process == "mds"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("lines = %v, want 2 entries", lines)
	}

	inv := fe.lastCall(t)
	want := []string{"show", "--predicate", `process == "mds"`, "--last", "1h"}
	if inv.Program != "log" || !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("invocation = %v %v, want log %v", inv.Program, inv.Args, want)
	}
	if inv.Timeout != logShowTimeout {
		t.Errorf("Timeout = %v, want %v", inv.Timeout, logShowTimeout)
	}
}

func TestLogShow_EmptyPredicate(t *testing.T) {
	c, fe := newTestClient(t, nil)

	_, err := c.LogShow(context.Background(), "")
	wantKind(t, err, KindInvalidArgument)
	if n := fe.spawnCount(); n != 0 {
		t.Errorf("spawns = %d, want 0", n)
	}
}

func TestParseAction(t *testing.T) {
	if _, err := ParseAction(" Enable "); err != nil {
		t.Errorf("mixed case with whitespace should parse: %v", err)
	}
	if _, err := ParseAction("explode"); err == nil {
		t.Error("unknown action should be rejected")
	}
}
