package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mairiedoc/mairiedoc/internal/apperr"
	"github.com/mairiedoc/mairiedoc/pkg/logger"
)

// Compiler invokes the external LaTeX compiler as a subprocess.
type Compiler struct {
	binary  string
	timeout time.Duration
	workDir string
}

func NewCompiler(binary string, timeout time.Duration, workDir string) *Compiler {
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Compiler{binary: binary, timeout: timeout, workDir: workDir}
}

// Available reports whether the compiler binary can be found on PATH.
func (c *Compiler) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Compile writes source to a per-request temp file, runs the compiler with a
// bounded timeout and returns the produced PDF bytes. The temp file name mixes
// the document id with a nanosecond timestamp so concurrent renders of the
// same document never collide. Source, output and compiler side-artifacts
// (.log, .aux) are removed on every exit path; cleanup failures are
// best-effort and never mask the result.
func (c *Compiler) Compile(ctx context.Context, docID int64, source string) ([]byte, error) {
	if !c.Available() {
		return nil, apperr.New(apperr.KindCompilerUnavailable, "latex compiler %q is not installed", c.binary)
	}

	base := fmt.Sprintf("doc_%d_%d", docID, time.Now().UnixNano())
	texPath := filepath.Join(c.workDir, base+".tex")
	defer func() {
		for _, ext := range []string{".tex", ".pdf", ".log", ".aux"} {
			if err := os.Remove(filepath.Join(c.workDir, base+ext)); err != nil && !os.IsNotExist(err) {
				logger.Warnf("cleanup %s%s: %v", base, ext, err)
			}
		}
	}()

	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("write latex source: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, c.binary,
		"-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", c.workDir, texPath)
	// A killed compiler can leave grandchildren holding the output pipes
	// open; WaitDelay makes Wait abandon them shortly after the deadline.
	cmd.WaitDelay = time.Second
	out, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.KindCompileFailed, cctx.Err(), "latex compile timed out after %s", c.timeout)
		}
		return nil, apperr.Wrap(apperr.KindCompileFailed, err, "latex compile failed: %s", tail(out, 500))
	}

	pdf, err := os.ReadFile(filepath.Join(c.workDir, base+".pdf"))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCompileFailed, err, "latex produced no output file")
	}
	return pdf, nil
}

// tail keeps the last n bytes of compiler output for error messages.
func tail(out []byte, n int) string {
	s := strings.TrimSpace(string(out))
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
