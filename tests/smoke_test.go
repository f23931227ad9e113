// Package tests provides smoke tests that run the sheetkit binary end to end
// against generated workbooks and check output and exit codes.
// These tests need a built binary at bin/sheetkit (go build -o bin/sheetkit .).
package tests

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klytics/sheetkit/internal/formats/xlsx"
)

// kitBin returns the path to the compiled sheetkit binary.
func kitBin(t *testing.T) string {
	t.Helper()
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Join(filepath.Dir(filename), "..")
	bin := filepath.Join(root, "bin", "sheetkit")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	if _, err := os.Stat(bin); os.IsNotExist(err) {
		t.Skipf("sheetkit binary not found at %s; build it first", bin)
	}
	return bin
}

// run executes sheetkit with args and returns stdout, stderr, and exit code.
// HOME points at a temp dir so the user's config and edit log are untouched.
func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(kitBin(t), args...)
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "NO_COLOR=1")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
	}
	return stdout.String(), stderr.String(), code
}

// fixture writes a two-sheet workbook and returns its directory and path.
func fixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "budget.xlsx")
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{
		{Name: "Summary", Rows: [][]string{{"", "Total"}, {"rent", ""}}},
		{Name: "Revenue", Rows: [][]string{{"Quarter", "Amount"}, {"Q1", "100"}, {"Q2", "150"}}},
	}}
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func decode(t *testing.T, stdout string) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("--json output is not valid JSON: %v\nOutput: %s", err, stdout)
	}
	return result
}

// TestAllCommandsExist validates that every command appears in --help.
func TestAllCommandsExist(t *testing.T) {
	commands := []string{
		"ls", "show", "set", "chart", "tui", "shell", "watch",
		"log", "config", "completion", "doctor", "version",
	}

	stdout, _, code := run(t, "--help")
	if code != 0 {
		t.Fatalf("sheetkit --help exited with code %d", code)
	}
	for _, cmd := range commands {
		if !strings.Contains(stdout, cmd) {
			t.Errorf("command %q not found in sheetkit --help output", cmd)
		}
	}
}

func TestLsListsWorkbook(t *testing.T) {
	dir, _ := fixture(t)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	stdout, _, code := run(t, "ls", dir)
	if code != 0 {
		t.Fatalf("sheetkit ls exited with code %d", code)
	}
	if !strings.Contains(stdout, "budget.xlsx") || !strings.Contains(stdout, "Revenue") {
		t.Errorf("ls output should list the workbook and its sheets, got: %s", stdout)
	}
	if strings.Contains(stdout, "notes.txt") {
		t.Error("ls should not list non-spreadsheet files")
	}
}

func TestLsMissingDirectory(t *testing.T) {
	stdout, _, code := run(t, "ls", filepath.Join(t.TempDir(), "missing"), "--json")
	if code != 2 {
		t.Errorf("ls on a missing directory should exit 2, got %d", code)
	}
	result := decode(t, stdout)
	if result["ok"] != false || result["kind"] != "IO_UNAVAILABLE" {
		t.Errorf("unexpected envelope: %v", result)
	}
}

func TestShowBlankHeader(t *testing.T) {
	_, path := fixture(t)
	stdout, _, code := run(t, "show", path, "Summary", "--no-pager")
	if code != 0 {
		t.Fatalf("sheetkit show exited with code %d", code)
	}
	if strings.Contains(stdout, "Unnamed") {
		t.Errorf("placeholder header should display blank, got: %s", stdout)
	}
	if !strings.Contains(stdout, "Total") {
		t.Errorf("show output should contain header, got: %s", stdout)
	}
}

func TestShowUnknownSheet(t *testing.T) {
	_, path := fixture(t)
	_, _, code := run(t, "show", path, "Nope")
	if code != 1 {
		t.Errorf("show on an unknown sheet should exit 1, got %d", code)
	}
}

func TestSetThenShow(t *testing.T) {
	_, path := fixture(t)
	_, _, code := run(t, "set", path, "Revenue", "b2", "007")
	if code != 0 {
		t.Fatalf("sheetkit set exited with code %d", code)
	}

	stdout, _, code := run(t, "show", path, "Revenue", "--csv")
	if code != 0 {
		t.Fatalf("sheetkit show exited with code %d", code)
	}
	if !strings.Contains(stdout, "Q1,007") {
		t.Errorf("written value should be kept as text, got: %s", stdout)
	}
}

func TestSetInvalidCell(t *testing.T) {
	_, path := fixture(t)
	_, _, code := run(t, "set", path, "Revenue", "not-a-cell", "x")
	if code != 1 {
		t.Errorf("invalid cell reference should exit 1, got %d", code)
	}
}

func TestChartJSON(t *testing.T) {
	_, path := fixture(t)
	stdout, _, code := run(t, "chart", path, "Revenue",
		"--kind", "Bar", "--range", "B2:B3", "--dest", "D2", "--title", "Revenue", "--json")
	if code != 0 {
		t.Fatalf("sheetkit chart exited with code %d: %s", code, stdout)
	}
	if decode(t, stdout)["ok"] != true {
		t.Errorf("chart envelope should be ok, got: %s", stdout)
	}
}

func TestChartUnreadableWorkbook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.xlsx")
	os.WriteFile(path, []byte("not a zip"), 0644)

	_, _, code := run(t, "chart", path, "Sheet1", "--range", "A1:A2", "--dest", "C1")
	if code != 2 {
		t.Errorf("unreadable workbook should exit 2, got %d", code)
	}
}

func TestShellEval(t *testing.T) {
	dir, _ := fixture(t)
	stdout, _, code := run(t, "shell", dir, "--eval", "select budget.xlsx Revenue", "--eval", "status")
	if code != 0 {
		t.Fatalf("sheetkit shell --eval exited with code %d", code)
	}
	if !strings.Contains(stdout, "Revenue") {
		t.Errorf("status should report the selection, got: %s", stdout)
	}
}

func TestLogStatus(t *testing.T) {
	_, _, code := run(t, "log", "status")
	if code != 0 {
		t.Errorf("sheetkit log status should exit 0, got %d", code)
	}
}

func TestConfigPath(t *testing.T) {
	stdout, _, code := run(t, "config", "path")
	if code != 0 {
		t.Fatal("sheetkit config path should exit 0")
	}
	if !strings.Contains(stdout, ".sheetkit") {
		t.Errorf("config path should be under .sheetkit, got: %s", stdout)
	}
}

// TestVersionOutput validates version command format.
func TestVersionOutput(t *testing.T) {
	stdout, _, code := run(t, "version")
	if code != 0 {
		t.Fatal("sheetkit version should exit 0")
	}
	if !strings.Contains(stdout, "sheetkit") {
		t.Errorf("version output should contain 'sheetkit', got: %s", stdout)
	}
}
