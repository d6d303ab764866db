package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
)

// stubCompiler writes a fake "compiler" shell script into dir that produces a
// .pdf (and .log/.aux side-artifacts) next to the .tex it is given, the way
// pdflatex does with -output-directory.
func stubCompiler(t *testing.T, dir string, exitCode int) string {
	t.Helper()
	script := `#!/bin/sh
for last; do :; done
base="${last%.tex}"
printf '%%PDF-1.4 stub' > "$base.pdf"
: > "$base.log"
: > "$base.aux"
exit ` + map[int]string{0: "0", 1: "1"}[exitCode] + "\n"
	path := filepath.Join(dir, "fakelatex")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestCompileUnavailableBinary(t *testing.T) {
	c := NewCompiler("definitely-not-a-latex-binary", time.Second, t.TempDir())
	_, err := c.Compile(context.Background(), 1, "x")
	require.Error(t, err)
	require.Equal(t, apperr.KindCompilerUnavailable, apperr.KindOf(err))
}

func TestCompileSuccessAndCleanup(t *testing.T) {
	dir := t.TempDir()
	bin := stubCompiler(t, dir, 0)
	c := NewCompiler(bin, 5*time.Second, dir)

	pdf, err := c.Compile(context.Background(), 42, `\documentclass{article}`)
	require.NoError(t, err)
	require.Contains(t, string(pdf), "%PDF")

	// all per-request files are gone; only the stub binary remains
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "fakelatex", entries[0].Name())
}

func TestCompileFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	bin := stubCompiler(t, dir, 1)
	c := NewCompiler(bin, 5*time.Second, dir)

	_, err := c.Compile(context.Background(), 7, "broken")
	require.Error(t, err)
	require.Equal(t, apperr.KindCompileFailed, apperr.KindOf(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCompileTimeout(t *testing.T) {
	dir := t.TempDir()
	// the backgrounded sleep keeps the output pipes open after the shell
	// itself is killed
	script := "#!/bin/sh\nsleep 5 &\nsleep 5\n"
	bin := filepath.Join(dir, "slowlatex")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	c := NewCompiler(bin, 100*time.Millisecond, dir)

	start := time.Now()
	_, err := c.Compile(context.Background(), 9, "x")
	require.Error(t, err)
	require.Equal(t, apperr.KindCompileFailed, apperr.KindOf(err))
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestSaveLoadNoopWhenMongoURIEmpty(t *testing.T) {
	pr := &PersistedRender{RenderID: "r1", DocumentID: 1, Status: "ok", CreatedAt: time.Now()}
	if err := Save(context.Background(), "", "", pr); err != nil {
		t.Fatalf("expected no error for empty mongoURI, got %v", err)
	}
	if got, err := Load(context.Background(), "", "", "r1"); err != nil || got != nil {
		t.Fatalf("expected nil result for empty mongoURI, got %v err=%v", got, err)
	}
}
