package completion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func testRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "sheetkit"}
	root.AddCommand(&cobra.Command{Use: "ls", Short: "List workbooks", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(&cobra.Command{Use: "show", Short: "Preview a worksheet", Run: func(*cobra.Command, []string) {}})
	root.AddCommand(NewCommand(root))
	return root
}

func generate(t *testing.T, shell string) string {
	t.Helper()
	root := testRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", shell})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestBashCompletion(t *testing.T) {
	out := generate(t, "bash")
	if !strings.Contains(out, "__start_sheetkit") {
		t.Error("bash completion should contain __start_sheetkit function")
	}
	if !strings.HasPrefix(out, "# sheetkit bash completion") {
		t.Error("bash completion should start with the install header")
	}
}

func TestZshCompletion(t *testing.T) {
	out := generate(t, "zsh")
	if !strings.Contains(out, "compdef") {
		t.Error("zsh completion should contain compdef")
	}
}

func TestFishCompletion(t *testing.T) {
	out := generate(t, "fish")
	if !strings.Contains(out, "complete -c sheetkit") {
		t.Error("fish completion should contain 'complete -c sheetkit'")
	}
}

func TestPowerShellCompletion(t *testing.T) {
	out := generate(t, "powershell")
	if !strings.Contains(out, "sheetkit") {
		t.Error("PowerShell completion should contain sheetkit")
	}
}

func TestUnsupportedShell(t *testing.T) {
	root := testRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
