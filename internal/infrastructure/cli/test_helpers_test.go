package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
	"github.com/spf13/pflag"
)

var testNow = time.Date(2025, time.June, 2, 8, 0, 0, 0, time.UTC)

const sampleItemsYAML = `items:
  - id: report
    title: Quarterly report
    priority: low
    deadline: "2025-06-01T17:00:00"
    estimatedHours: 2
  - id: deploy
    title: Deploy API
    priority: critical
  - id: docs
    title: Update docs
    priority: medium
    status: completed
`

// syncBuffer is written from the watcher goroutine while the test reads it.
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

// isolate runs the command in an empty directory with no backend
// credentials and a pinned clock.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DAYBRIEF_AI_PROVIDER", "")

	oldClock := newClock
	newClock = func() planning.Clock { return planning.FixedClock{T: testNow} }
	t.Cleanup(func() { newClock = oldClock })
	return dir
}

func writeItems(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "items.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func resetFlags() {
	configPath = ""
	itemsFile = ""
	jsonOutput = false
	suggestDescription = ""
	watchFile = ""
	dashboardFile = ""
	mcpTransport = "stdio"
	mcpAddr = ":8080"
	serveAddr = ""

	// cobra keeps a subcommand's context once set, which would hide the
	// context passed to the next ExecuteContext.
	RootCmd.SetContext(nil) //nolint:staticcheck
	for _, c := range RootCmd.Commands() {
		c.SetContext(nil) //nolint:staticcheck
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out syncBuffer
	var errOut bytes.Buffer
	resetFlags()
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetArgs(args)
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	return out.String(), err
}
