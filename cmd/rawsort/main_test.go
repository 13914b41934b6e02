package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"rawsort/internal/config"
	"rawsort/internal/logging"
	"rawsort/internal/services"
	"rawsort/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	input      string
	sorted     string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(base, "rawsort.toml"),
		input:      cfg.Sort.InputDir,
		sorted:     filepath.Join(base, "sorted"),
	}
	writeTestConfig(t, env.configPath, cfg)
	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) seedPhotos(t *testing.T) {
	t.Helper()
	testsupport.WritePhoto(t, filepath.Join(e.input, "20171104-DSC_1236.JPG"), testsupport.Photo{DateTimeOriginal: "2017:11:04 12:45:23", Make: "NIKON CORPORATION", Model: "NIKON D750"})
	testsupport.WritePhoto(t, filepath.Join(e.input, "IMG_0002.jpg"), testsupport.Photo{DateTimeOriginal: "2017:12:24 18:30:00"})
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.configPath}, args...))
}

func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootWithoutArgsShowsHelp(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := env.run(t)
	if err != nil {
		t.Fatalf("rawsort returned error: %v", err)
	}
	if !strings.Contains(stdout, "Usage:") || !strings.Contains(stdout, "[filename]") {
		t.Fatalf("expected help listing tokens, got:\n%s", stdout)
	}
}

func TestSortDryRunLeavesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedPhotos(t)

	stdout, _, err := env.run(t, "-d", env.input)
	if err != nil {
		t.Fatalf("dry run returned error: %v", err)
	}
	if !strings.Contains(stdout, "Dry run: This will create 2 dir(s) and move 2 file(s)") {
		t.Fatalf("missing explain line:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Directories to be created:") || !strings.Contains(stdout, filepath.Join(env.sorted, "2017", "11", "4")) {
		t.Fatalf("missing directories:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(env.input, "IMG_0002.jpg")); err != nil {
		t.Fatalf("dry run moved a file: %v", err)
	}
	if _, err := os.Stat(env.sorted); !os.IsNotExist(err) {
		t.Fatalf("dry run created output tree: %v", err)
	}
}

var runIDPattern = regexp.MustCompile(`Run ([0-9a-f-]{36})`)

func TestSortMovesFilesAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedPhotos(t)

	stdout, _, err := env.run(t, "--yes", "-o", filepath.Join(env.sorted, "[camera]", "[date]", "[filename]"), env.input)
	if err != nil {
		t.Fatalf("sort returned error: %v", err)
	}
	if !strings.Contains(stdout, "Done: Moved 2 file(s)") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
	for _, path := range []string{
		filepath.Join(env.sorted, "Nikon D750", "2017-11-04", "20171104-DSC_1236.JPG"),
		filepath.Join(env.sorted, "unknown", "2017-12-24", "IMG_0002.jpg"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}

	match := runIDPattern.FindStringSubmatch(stdout)
	if match == nil {
		t.Fatalf("run id not printed:\n%s", stdout)
	}
	history, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if !strings.Contains(history, match[1]) || !strings.Contains(history, "completed") {
		t.Fatalf("history missing run:\n%s", history)
	}
	detail, _, err := env.run(t, "history", "--run", match[1])
	if err != nil {
		t.Fatalf("history --run returned error: %v", err)
	}
	if strings.Count(detail, "moved") != 2 {
		t.Fatalf("expected two moved rows:\n%s", detail)
	}
}

func TestSortWithoutTerminalDeclines(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Sort.NoPrompts = false
	writeTestConfig(t, env.configPath, env.cfg)
	env.seedPhotos(t)

	stdout, stderr, err := env.run(t, "sort", env.input)
	if err != nil {
		t.Fatalf("sort returned error: %v", err)
	}
	if !strings.Contains(stdout, "Aborted") {
		t.Fatalf("expected abort, got:\n%s", stdout)
	}
	if !strings.Contains(stderr, "--yes") {
		t.Fatalf("expected hint about --yes in logs:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(env.input, "IMG_0002.jpg")); err != nil {
		t.Fatalf("declined run moved a file: %v", err)
	}
}

func TestSortCollisionExitsWithValidationCode(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedPhotos(t)

	_, _, err := env.run(t, "-y", "-o", filepath.Join(env.sorted, "[year]"), env.input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if code := services.ExitCode(err); code != services.ExitValidation {
		t.Fatalf("expected exit code %d, got %d (%v)", services.ExitValidation, code, err)
	}
	if !strings.Contains(err.Error(), "2 file(s) for source, 1 file(s) for target") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSortRejectsBadDatePolicyFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "--date-policy", "guess", env.input)
	if code := services.ExitCode(err); code != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d (%v)", code, err)
	}
}

func TestTokensCommandListsBuiltins(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"tokens"})
	if err != nil {
		t.Fatalf("tokens returned error: %v", err)
	}
	for _, key := range []string{"[year]", "[month]", "[filename]", "[ext]", "[camera]"} {
		if !strings.Contains(stdout, key) {
			t.Fatalf("tokens output missing %s:\n%s", key, stdout)
		}
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))
	path := filepath.Join(base, "rawsort.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", path})
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(stdout, path) {
		t.Fatalf("unexpected init output:\n%s", stdout)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", path}); err == nil {
		t.Fatal("expected error when config exists")
	}

	stdout, _, err = runCLI(t, []string{"--config", path, "config", "validate"})
	if err != nil {
		t.Fatalf("config validate returned error: %v", err)
	}
	if !strings.Contains(stdout, "Configuration valid") || !strings.Contains(stdout, "[date]") {
		t.Fatalf("unexpected validate output:\n%s", stdout)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	stdout, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history returned error: %v", err)
	}
	if !strings.Contains(stdout, "No runs recorded") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestHistoryUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := env.run(t, "history", "--run", "nope")
	if code := services.ExitCode(err); code != services.ExitConfiguration {
		t.Fatalf("expected not-found exit code, got %d (%v)", code, err)
	}
}

func TestHistoryDisabledManifest(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutManifest())
	if _, _, err := env.run(t, "history"); err == nil {
		t.Fatal("expected error with manifest disabled")
	}
}

func TestPromptConfirm(t *testing.T) {
	var out bytes.Buffer
	confirm := promptConfirm(strings.NewReader("y\nno\nYES\n"), &out)
	if !confirm("first?") || confirm("second?") || !confirm("third?") || confirm("eof?") {
		t.Fatal("unexpected answers")
	}
	if !strings.Contains(out.String(), "first? [y/N]") {
		t.Fatalf("question not printed: %q", out.String())
	}
}

func TestWatchAndSortRunsOnCreate(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycles := make(chan struct{}, 4)
	var out syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watchAndSort(ctx, &out, dir, 10*time.Millisecond, logging.NewNop(), func(context.Context) error {
			cycles <- struct{}{}
			return nil
		})
	}()

	deadline := time.After(5 * time.Second)
	for !strings.Contains(out.String(), "Now watching") {
		select {
		case <-deadline:
			t.Fatal("watch never started")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "new.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-cycles:
	case <-deadline:
		t.Fatal("no cycle after create")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watchAndSort returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watchAndSort did not stop")
	}
}

func TestWatchAndSortMissingDir(t *testing.T) {
	err := watchAndSort(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "missing"), time.Millisecond, logging.NewNop(), func(context.Context) error { return nil })
	if code := services.ExitCode(err); code != services.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %d (%v)", code, err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
