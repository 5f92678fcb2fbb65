package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/footrule/pkg/errors"
	"github.com/matzehuels/footrule/pkg/history"
)

// isolate points every XDG directory at a temp dir so commands never touch
// the real cache, history or config.
func isolate(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")
	return root
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRankings(t *testing.T, dir string, rankings ...string) []string {
	t.Helper()
	var paths []string
	for i, r := range rankings {
		p := filepath.Join(dir, string(rune('a'+i))+".txt")
		if err := os.WriteFile(p, []byte(r), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestMergeText(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "A\nB\nC\n", "C B A")

	out, err := runCLI(t, append([]string{"merge"}, files...)...)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("output = %q", out)
	}
	if lines[0] != "1.333333" || lines[2] != "B" {
		t.Errorf("output = %q, want distance first and B in the middle", out)
	}
}

func TestMergeFlags(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "x y z", "x y z", "y x z")

	out, err := runCLI(t, append([]string{"merge", "--distance=last", "--method", "brute"}, files...)...)
	if err != nil {
		t.Fatal(err)
	}
	if out != "x\ny\nz\n0.666667\n" {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, append([]string{"merge", "-f", "json", "--no-cache"}, files...)...)
	if err != nil {
		t.Fatal(err)
	}
	var res struct {
		Ranking []string `json:"ranking"`
		Method  string   `json:"method"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("json output %q: %v", out, err)
	}
	if strings.Join(res.Ranking, " ") != "x y z" || res.Method != "hungarian" {
		t.Errorf("result = %+v", res)
	}
}

func TestMergeOutputFile(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "a b", "b a")
	outPath := filepath.Join(dir, "consensus.txt")

	if _, err := runCLI(t, append([]string{"merge", "-o", outPath, "--distance", "none"}, files...)...); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Fields(string(data)); len(lines) != 2 {
		t.Errorf("output file = %q", data)
	}
}

func TestMergeErrors(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "a b", "b b")

	if _, err := runCLI(t, "merge", files[0]); err == nil || !strings.Contains(err.Error(), "at least 2") {
		t.Errorf("single file: err = %v", err)
	}

	if _, err := runCLI(t, "merge", files[0], filepath.Join(dir, "missing.txt")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v", err)
	}

	if _, err := runCLI(t, "merge", files[0], files[1]); !errors.Is(err, errors.ErrCodeInvalidRanking) {
		t.Errorf("duplicate item: err = %v", err)
	}

	if _, err := runCLI(t, "merge", "--format", "pdf", files[0], files[0]); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format: err = %v", err)
	}
}

func TestMergeUsesConfig(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "p q", "q p")

	cfgDir := filepath.Join(dir, "config", appName)
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[output]\ndistance = \"none\"\n[history]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, append([]string{"merge"}, files...)...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, ".") {
		t.Errorf("distance printed despite config: %q", out)
	}

	// A flag overrides the config.
	out, err = runCLI(t, append([]string{"merge", "--distance", "first"}, files...)...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "1.000000\n") {
		t.Errorf("output = %q", out)
	}
}

func TestHistoryCommands(t *testing.T) {
	dir := isolate(t)
	files := writeRankings(t, dir, "a b c", "c b a")

	if _, err := runCLI(t, append([]string{"merge"}, files...)...); err != nil {
		t.Fatal(err)
	}

	store, err := history.NewFileStore("")
	if err != nil {
		t.Fatal(err)
	}
	runs, err := store.List(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs = %v, err = %v", runs, err)
	}
	id := runs[0].ID
	if len(runs[0].Inputs) != 2 {
		t.Errorf("inputs = %v", runs[0].Inputs)
	}

	out, err := runCLI(t, "history", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, id) {
		t.Errorf("list output missing %s: %q", id, out)
	}

	out, err = runCLI(t, "history", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1.333333") || !strings.Contains(out, id) {
		t.Errorf("show output = %q", out)
	}

	out, err = runCLI(t, "history", "show", id, "--format", "text", "--distance", "last")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "1.333333\n") {
		t.Errorf("show text = %q", out)
	}

	if _, err := runCLI(t, "history", "show", "nope"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad id: err = %v", err)
	}

	if _, err := runCLI(t, "history", "delete", id); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "history", "show", id); !errors.Is(err, errors.ErrCodeRunNotFound) {
		t.Errorf("deleted run: err = %v", err)
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "version:") {
		t.Errorf("version output = %q", out)
	}
}
