package asciify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"
)

// stubRunner stands in for the external converter process.
type stubRunner struct {
	mu     sync.Mutex
	calls  int
	args   []string
	output []byte
	err    error
	delay  time.Duration
}

func (r *stubRunner) run(ctx context.Context, binary string, args, env []string) ([]byte, error) {
	r.mu.Lock()
	r.calls++
	r.args = args
	r.mu.Unlock()

	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	return r.output, r.err
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *stubRunner) lastArgs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.args
}

func okLookPath(binary string) (string, error) {
	return "/usr/bin/" + binary, nil
}

func failLookPath(binary string) (string, error) {
	return "", errors.New("executable file not found in $PATH")
}

// newTestConverter wires a converter to an in-memory filesystem and the stub
// runner so no real process or disk is touched.
func newTestConverter(runner *stubRunner, extra ...Option) (*Converter, afero.Fs) {
	memFs := afero.NewMemMapFs()
	options := []Option{
		WithFs(memFs),
		WithRunFunc(runner.run),
		WithLookPathFunc(okLookPath),
		WithNowFunc(fixedNowFunc),
	}
	return New(append(options, extra...)...), memFs
}

func TestConvertBytesEndToEnd(t *testing.T) {
	isDebug := false // Set to true when you want to troubleshoot issues visually.

	// Three rows of 40 columns, colored like real converter output.
	row := strings.Repeat("#", 40)
	runner := &stubRunner{output: []byte(
		"\x1b[38;2;10;20;30m" + row + "\n" + row + "\n\x1b[0m" + row + "\n",
	)}
	conv, memFs := newTestConverter(runner)

	opts := DefaultOptions()
	opts.Complex = true
	opts.Width = 40
	opts.NoDisplay = true

	payload := makePNG(t, 8, 8)
	art, err := conv.Convert(context.Background(), Bytes(payload), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if isDebug {
		spew.Dump(art)
	}

	if len(art.Runs) == 0 {
		t.Fatal("expected non-empty styled runs")
	}
	for i, line := range art.Lines() {
		if got := len([]rune(line)); got != 40 {
			t.Errorf("row %d has %d columns, want 40", i, got)
		}
	}
	if art.CreatedAt != fixedNowFunc() {
		t.Errorf("CreatedAt = %v, want the injected clock value", art.CreatedAt)
	}

	// A cache entry now exists for the payload's fingerprint.
	key, err := conv.keyFor(Bytes(payload))
	if err != nil {
		t.Fatalf("keyFor failed: %v", err)
	}
	if _, ok := conv.Cache().Lookup(key); !ok {
		t.Error("no cache entry for the byte payload's fingerprint")
	}

	// The converter received the sniffed flags and the materialized path.
	args := runner.lastArgs()
	if len(args) == 0 || !strings.HasSuffix(args[0], ".png") {
		t.Errorf("converter args = %v, want materialized .png path first", args)
	}
	if !containsString(args, "--complex") || !containsString(args, "--width") {
		t.Errorf("converter args = %v, missing option flags", args)
	}

	// No temp file survives the conversion.
	if n := countFiles(t, memFs); n != 0 {
		t.Errorf("found %d files after conversion, want 0", n)
	}
}

func TestConvertIdenticalBytesBypassInvocation(t *testing.T) {
	runner := &stubRunner{output: []byte("art\n")}
	conv, _ := newTestConverter(runner)

	opts := DefaultOptions()
	opts.NoDisplay = true

	payload := makePNG(t, 4, 4)
	first, err := conv.Convert(context.Background(), Bytes(payload), opts)
	if err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}

	second, err := conv.Convert(context.Background(), Bytes(payload), opts)
	if err != nil {
		t.Fatalf("second Convert failed: %v", err)
	}

	if runner.callCount() != 1 {
		t.Errorf("converter spawned %d times, want 1", runner.callCount())
	}
	if first != second {
		t.Error("second call did not return the cached artifact")
	}
}

func TestConvertFirstResultWinsAcrossOptions(t *testing.T) {
	// Keys derive from source identity only, so a second call with different
	// options for the same source still gets the first answer.
	runner := &stubRunner{output: []byte("first answer\n")}
	conv, _ := newTestConverter(runner)

	payload := makePNG(t, 4, 4)

	opts := DefaultOptions()
	opts.NoDisplay = true
	first, err := conv.Convert(context.Background(), Bytes(payload), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	runner.output = []byte("second answer\n")
	opts.Braille = true
	opts.Threshold = 200
	second, err := conv.Convert(context.Background(), Bytes(payload), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if second != first {
		t.Error("differing options for the same source did not return the first artifact")
	}
	if second.Plain() != "first answer\n" {
		t.Errorf("Plain() = %q, want the first computed answer", second.Plain())
	}
}

func TestConvertInvalidThreshold(t *testing.T) {
	runner := &stubRunner{output: []byte("art\n")}
	conv, memFs := newTestConverter(runner)

	opts := DefaultOptions()
	opts.Threshold = 300

	_, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), opts)
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("Convert() = %v, want ErrInvalidOption", err)
	}

	if runner.callCount() != 0 {
		t.Error("process spawned despite validation failure")
	}
	if conv.Cache().Len() != 0 {
		t.Error("cache entry created despite validation failure")
	}
	if n := countFiles(t, memFs); n != 0 {
		t.Error("file written despite validation failure")
	}
}

func TestConvertBinaryMissing(t *testing.T) {
	runner := &stubRunner{output: []byte("art\n")}
	conv, memFs := newTestConverter(runner, WithLookPathFunc(failLookPath))

	_, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), DefaultOptions())
	if !errors.Is(err, ErrBinaryNotFound) {
		t.Fatalf("Convert() = %v, want ErrBinaryNotFound", err)
	}

	if runner.callCount() != 0 {
		t.Error("process spawned despite missing binary")
	}
	if n := countFiles(t, memFs); n != 0 {
		t.Error("temp file created despite missing binary")
	}
}

func TestConvertCleanupOnFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("exit status 2")}
	conv, memFs := newTestConverter(runner)

	_, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), DefaultOptions())
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("Convert() = %v, want ErrConversionFailed", err)
	}

	if n := countFiles(t, memFs); n != 0 {
		t.Errorf("found %d files after failed conversion, want 0", n)
	}
	if conv.Cache().Len() != 0 {
		t.Error("cache entry created for a failed conversion")
	}
}

func TestConvertAnimatedURL(t *testing.T) {
	payload := makeAnimatedGIF(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	runner := &stubRunner{output: []byte("art\n")}
	conv, memFs := newTestConverter(runner, WithHTTPClient(srv.Client()))

	opts := DefaultOptions()
	opts.NoDisplay = true

	art, err := conv.Convert(context.Background(), URL(srv.URL+"/anim.gif"), opts)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if art.Plain() != "art\n" {
		t.Errorf("Plain() = %q, want %q", art.Plain(), "art\n")
	}

	// The converter saw the static first frame, not the animated original.
	args := runner.lastArgs()
	if len(args) == 0 || !strings.HasSuffix(args[0], ".png") {
		t.Errorf("converter args = %v, want static .png frame first", args)
	}

	// Both the multi-frame file and the static frame are gone afterwards.
	if n := countFiles(t, memFs); n != 0 {
		t.Errorf("found %d files after conversion, want 0", n)
	}
}

func TestConvertURLCachedBySourceKey(t *testing.T) {
	payload := makePNG(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	runner := &stubRunner{output: []byte("art\n")}
	conv, _ := newTestConverter(runner, WithHTTPClient(srv.Client()))

	opts := DefaultOptions()
	opts.NoDisplay = true

	url := srv.URL + "/gopher.png"
	if _, err := conv.Convert(context.Background(), URL(url), opts); err != nil {
		t.Fatalf("first Convert failed: %v", err)
	}
	if _, err := conv.Convert(context.Background(), URL(url), opts); err != nil {
		t.Fatalf("second Convert failed: %v", err)
	}

	if runner.callCount() != 1 {
		t.Errorf("converter spawned %d times for one URL, want 1", runner.callCount())
	}

	// The artifact is reachable through both the URL key and the resolved
	// path key it converged to.
	urlKey, err := conv.keyFor(URL(url))
	if err != nil {
		t.Fatalf("keyFor failed: %v", err)
	}
	urlArt, ok := conv.Cache().Lookup(urlKey)
	if !ok {
		t.Fatal("no cache entry under the URL key")
	}
	pathArt, ok := conv.Cache().Lookup(urlArt.Key)
	if !ok {
		t.Fatal("no cache entry under the resolved path key")
	}
	if pathArt != urlArt {
		t.Error("URL key and path key resolve to different artifacts")
	}
}

func TestConvertConcurrentIdenticalRequestsShareOneComputation(t *testing.T) {
	runner := &stubRunner{output: []byte("art\n"), delay: 30 * time.Millisecond}
	conv, _ := newTestConverter(runner)

	opts := DefaultOptions()
	opts.NoDisplay = true

	payload := makePNG(t, 4, 4)

	var wg sync.WaitGroup
	arts := make([]*Artifact, 4)
	for i := range arts {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			art, err := conv.Convert(context.Background(), Bytes(payload), opts)
			if err != nil {
				t.Errorf("concurrent Convert failed: %v", err)
				return
			}
			arts[n] = art
		}(i)
	}
	wg.Wait()

	if runner.callCount() != 1 {
		t.Errorf("converter spawned %d times for identical concurrent requests, want 1", runner.callCount())
	}
	for i := 1; i < len(arts); i++ {
		if arts[i] != arts[0] {
			t.Error("concurrent identical requests got different artifacts")
		}
	}
}

// recordingDisplay records the order of display surface calls.
type recordingDisplay struct {
	ops  []string
	runs []StyledRun
}

func (d *recordingDisplay) Clear() { d.ops = append(d.ops, "clear") }
func (d *recordingDisplay) InsertStyled(runs []StyledRun) {
	d.ops = append(d.ops, "insert")
	d.runs = runs
}
func (d *recordingDisplay) RefreshStyling() { d.ops = append(d.ops, "refresh") }

func TestConvertDeliversToDisplay(t *testing.T) {
	display := &recordingDisplay{}
	runner := &stubRunner{output: []byte("art\n")}
	conv, _ := newTestConverter(runner, WithDisplay(display))

	if _, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), DefaultOptions()); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	wantOps := []string{"clear", "insert", "refresh"}
	if len(display.ops) != 3 || display.ops[0] != wantOps[0] || display.ops[1] != wantOps[1] || display.ops[2] != wantOps[2] {
		t.Errorf("display ops = %v, want %v", display.ops, wantOps)
	}
	if len(display.runs) == 0 {
		t.Error("display received no runs")
	}
}

func TestConvertSuppressedDisplay(t *testing.T) {
	display := &recordingDisplay{}
	runner := &stubRunner{output: []byte("art\n")}
	conv, _ := newTestConverter(runner, WithDisplay(display))

	opts := DefaultOptions()
	opts.NoDisplay = true

	if _, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), opts); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	if len(display.ops) != 0 {
		t.Errorf("display touched despite NoDisplay: %v", display.ops)
	}
}

func TestConvertSaveToPersistsPlainText(t *testing.T) {
	runner := &stubRunner{output: []byte("\x1b[38;2;9;9;9martwork\x1b[0m\n")}
	conv, memFs := newTestConverter(runner)

	opts := DefaultOptions()
	opts.NoDisplay = true
	opts.SaveTo = "/out/saved.txt"

	if _, err := conv.Convert(context.Background(), Bytes(makePNG(t, 4, 4)), opts); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	data, err := afero.ReadFile(memFs, "/out/saved.txt")
	if err != nil {
		t.Fatalf("failed to read saved artifact: %v", err)
	}
	if got, want := string(data), "artwork\n"; got != want {
		t.Errorf("saved content = %q, want %q", got, want)
	}

	// The explicit save path persists; only temp files are cleaned up.
	if n := countFiles(t, memFs); n != 1 {
		t.Errorf("found %d files after conversion, want only the saved artifact", n)
	}
}

func TestConvertPathSourceSkipsMaterialization(t *testing.T) {
	runner := &stubRunner{output: []byte("art\n")}
	conv, memFs := newTestConverter(runner)

	if err := afero.WriteFile(memFs, "/images/gopher.png", makePNG(t, 4, 4), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	opts := DefaultOptions()
	opts.NoDisplay = true

	if _, err := conv.Convert(context.Background(), Path("/images/gopher.png"), opts); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	args := runner.lastArgs()
	if len(args) == 0 || args[0] != "/images/gopher.png" {
		t.Errorf("converter args = %v, want the caller's path untouched", args)
	}

	// The caller's file is never treated as a temp resource.
	if exists, _ := afero.Exists(memFs, "/images/gopher.png"); !exists {
		t.Error("caller-supplied file was deleted")
	}
}
