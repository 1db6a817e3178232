package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

// runCLI executes todomgr against the sqlite file at dsn and returns stdout
func runCLI(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	root := RootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--envfile", "", "--db", dsn}, args...))
	err := root.Execute()
	return out.String(), err
}

func setupTestDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "todo.sq3")
}

func TestRootCmdStructure(t *testing.T) {
	root := RootCmd("test")

	want := map[string]bool{"list": false, "add": false, "complete": false, "uncomplete": false, "delete": false, "purge": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
			if sub.Short == "" {
				t.Errorf("%s command should have a Short description", sub.Name())
			}
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestAddListComplete(t *testing.T) {
	dsn := setupTestDSN(t)

	out, err := runCLI(t, dsn, "add", "buy", "milk")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out, "buy milk") {
		t.Errorf("expected added text in output, got %q", out)
	}
	if _, err := runCLI(t, dsn, "add", "walk dog"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	out, err = runCLI(t, dsn, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "○") || !strings.Contains(out, "2 left to do") {
		t.Errorf("expected two pending items, got %q", out)
	}

	if _, err := runCLI(t, dsn, "complete", "buy milk"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	out, _ = runCLI(t, dsn, "list")
	if !strings.Contains(out, "✓") || !strings.Contains(out, "1 left to do") {
		t.Errorf("expected one done item, got %q", out)
	}

	if _, err := runCLI(t, dsn, "uncomplete", "buy milk"); err != nil {
		t.Fatalf("uncomplete failed: %v", err)
	}
	out, _ = runCLI(t, dsn, "list")
	if !strings.Contains(out, "2 left to do") {
		t.Errorf("expected 2 left after uncomplete, got %q", out)
	}
}

func TestUnknownItemFails(t *testing.T) {
	dsn := setupTestDSN(t)

	if _, err := runCLI(t, dsn, "complete", "ghost"); err == nil {
		t.Error("expected error completing unknown item")
	}
	if _, err := runCLI(t, dsn, "delete", "ghost"); err == nil {
		t.Error("expected error deleting unknown item")
	}
}

func TestDelete(t *testing.T) {
	dsn := setupTestDSN(t)
	runCLI(t, dsn, "add", "drop me")

	if _, err := runCLI(t, dsn, "delete", "drop me"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	out, _ := runCLI(t, dsn, "list")
	if !strings.Contains(out, "No todos found") {
		t.Errorf("expected empty list, got %q", out)
	}
}

func TestPurge(t *testing.T) {
	dsn := setupTestDSN(t)
	runCLI(t, dsn, "add", "one")
	runCLI(t, dsn, "add", "two")

	old := isInteractive
	t.Cleanup(func() { isInteractive = old })
	isInteractive = func() bool { return false }

	if _, err := runCLI(t, dsn, "purge"); err == nil {
		t.Fatal("expected purge without --yes to fail on non-interactive stdin")
	}
	out, _ := runCLI(t, dsn, "list")
	if !strings.Contains(out, "2 left to do") {
		t.Fatalf("expected items to survive refused purge, got %q", out)
	}

	out, err := runCLI(t, dsn, "purge", "--yes")
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if !strings.Contains(out, "Purged 2 todo(s)") {
		t.Errorf("expected purge count, got %q", out)
	}
}

func TestPurgePromptDeclined(t *testing.T) {
	dsn := setupTestDSN(t)
	runCLI(t, dsn, "add", "keep")

	old := isInteractive
	t.Cleanup(func() { isInteractive = old })
	isInteractive = func() bool { return true }

	color.NoColor = true
	root := RootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("n\n"))
	root.SetArgs([]string{"--envfile", "", "--db", dsn, "purge"})
	if err := root.Execute(); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if !strings.Contains(out.String(), "Aborted") {
		t.Errorf("expected abort, got %q", out.String())
	}

	listOut, _ := runCLI(t, dsn, "list")
	if !strings.Contains(listOut, "keep") {
		t.Errorf("expected item to survive, got %q", listOut)
	}
}
