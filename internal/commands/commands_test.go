package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"orange/internal/commands"
	"orange/internal/config"
	"orange/internal/exitcode"
	"orange/internal/service"
	"orange/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	ctx := context.Background()
	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(ctx, cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// parseFlags registers cmd's flags and parses args, returning the positionals.
func parseFlags(t *testing.T, cmd commands.Command, args ...string) []string {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs.Args()
}

func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Buy milk", "2 liters", false, "shop")
	svc.AddTask(2, "Call mom", "Sunday\nafter lunch", true)
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "orange 0.1.0") || !strings.HasSuffix(stdout, "\n") {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "orange add", "orange toggle", "secrets.toml"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, seededService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}

	expected := "   1  [ ] Buy milk #shop\n   2  [x] Call mom\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Long(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetLong(true)
	stdout, _, code := runCommand(t, cmd, seededService(), nil, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "list_long", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_UnexpectedArgument(t *testing.T) {
	cmd := &commands.ListCmd{}
	_, stderr, code := runCommand(t, cmd, seededService(), []string{"work"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unexpected argument: work\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := seededService()
	svc.LoadAllErr = errors.New("connection refused")

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "connection refused") {
		t.Errorf("expected backend error on stderr, got %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := seededService()
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "--body", "eggs and flour", "-t", "shop", "--tag", "weekend", "Bake", "a", "cake")

	stdout, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok 3\n" {
		t.Errorf("expected 'ok 3', got %q", stdout)
	}

	stored := svc.Stored()
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored tasks, got %d", len(stored))
	}
	got := stored[2]
	if got.ID() != 3 || got.Heading() != "Bake a cake" || got.Body() != "eggs and flour" || got.Checked() {
		t.Errorf("unexpected task: %+v", got.Draft())
	}
	if !reflect.DeepEqual(got.Tags(), []string{"shop", "weekend"}) {
		t.Errorf("unexpected tags: %v", got.Tags())
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "-b", "body", "First")

	stdout, _, code := runCommand(t, cmd, svc, args, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
	if stored := svc.Stored(); len(stored) != 1 || stored[0].ID() != 1 {
		t.Errorf("expected one task with id 1, got %d tasks", len(stored))
	}
}

func TestAddCommand_NoHeading(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "--body", "something")

	_, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: heading required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if len(svc.Flushes) != 0 {
		t.Errorf("expected no flush, got %d", len(svc.Flushes))
	}
}

func TestAddCommand_NoBody(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "Buy", "bread")

	_, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Add body. Todo can't have empty body!\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if len(svc.Stored()) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestAddCommand_FlushError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.FlushErr = errors.New("disk full")
	cmd := &commands.AddCmd{}
	args := parseFlags(t, cmd, "-b", "body", "Heading")

	stdout, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "disk full") {
		t.Errorf("expected flush error on stderr, got %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_ChangesOnlyGivenFields(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, "--heading", "Buy oat milk", "1")

	stdout, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	got := svc.Stored()[0]
	if got.Heading() != "Buy oat milk" || got.Body() != "2 liters" {
		t.Errorf("unexpected task: %+v", got.Draft())
	}
	if !reflect.DeepEqual(got.Tags(), []string{"shop"}) {
		t.Errorf("tags should be unchanged, got %v", got.Tags())
	}
}

func TestEditCommand_ReplacesTags(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, "-t", "family", "-t", "weekend", "2")

	_, _, code := runCommand(t, cmd, svc, args, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	got := svc.Stored()[1]
	if !reflect.DeepEqual(got.Tags(), []string{"family", "weekend"}) {
		t.Errorf("unexpected tags: %v", got.Tags())
	}
	if !got.Checked() {
		t.Error("checked flag should be kept")
	}
}

func TestEditCommand_EmptyBody(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, "--body", "", "1")

	_, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: Add body. Todo can't have empty body!\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if got := svc.Stored()[0]; got.Body() != "2 liters" {
		t.Errorf("stored body changed to %q", got.Body())
	}
}

func TestEditCommand_NotFound(t *testing.T) {
	svc := seededService()
	cmd := &commands.EditCmd{}
	args := parseFlags(t, cmd, "--heading", "x", "9")

	_, stderr, code := runCommand(t, cmd, svc, args, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 9\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for toggle command
func TestToggleCommand_Success(t *testing.T) {
	svc := seededService()
	cmd := &commands.ToggleCmd{}

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}
	if !svc.Stored()[0].Checked() {
		t.Error("task 1 should be checked")
	}

	// A second toggle unchecks it again.
	runCommand(t, cmd, svc, []string{"1"}, true)
	if svc.Stored()[0].Checked() {
		t.Error("task 1 should be unchecked")
	}
}

func TestToggleCommand_NoID(t *testing.T) {
	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, seededService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestToggleCommand_InvalidID(t *testing.T) {
	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, seededService(), []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task id: abc\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestToggleCommand_NotFound(t *testing.T) {
	svc := seededService()
	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"42"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 42\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if len(svc.Flushes) != 0 {
		t.Errorf("expected no flush, got %d", len(svc.Flushes))
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := seededService()
	cmd := &commands.RmCmd{}

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok', got %q", stdout)
	}

	stored := svc.Stored()
	if len(stored) != 1 || stored[0].ID() != 2 {
		t.Errorf("expected only task 2 to remain, got %d tasks", len(stored))
	}
	if len(svc.Flushes) != 1 || !reflect.DeepEqual(svc.Flushes[0].Removed, []int64{1}) {
		t.Errorf("expected removal of id 1 to be flushed, got %+v", svc.Flushes)
	}
}

func TestRmCommand_NoID(t *testing.T) {
	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, seededService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr == "" {
		t.Error("expected error message")
	}
}

func TestRmCommand_NotFound(t *testing.T) {
	svc := seededService()
	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"7"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 7\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if len(svc.Stored()) != 2 {
		t.Error("no task should be removed")
	}
}

// Tests for ui command model construction
func TestUICommand_ModelLoadsTasks(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SecretsFile), []byte("backend = \"sqlite\"\n"), 0600); err != nil {
		t.Fatalf("failed to write secrets: %v", err)
	}
	cfg := &config.Config{Dir: dir}

	svc := seededService()
	cmd := &commands.UICmd{}
	cmd.SetFactory(func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	})

	m := cmd.Model(context.Background(), cfg)
	view := m.View()
	for _, want := range []string{"Buy milk", "#shop", "[x]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q:\n%s", want, view)
		}
	}
	if cfg.Secrets.Backend != config.BackendSQLite {
		t.Errorf("secrets should be loaded, got backend %q", cfg.Secrets.Backend)
	}
}

func TestUICommand_ModelWithoutSecrets(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	called := false
	cmd := &commands.UICmd{}
	cmd.SetFactory(func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		called = true
		return testutil.NewFakeService(), nil
	})

	m := cmd.Model(context.Background(), cfg)
	if called {
		t.Error("factory should not be called when secrets are unreadable")
	}
	if !strings.Contains(m.View(), "No todos yet") {
		t.Errorf("expected empty list view, got:\n%s", m.View())
	}
}
