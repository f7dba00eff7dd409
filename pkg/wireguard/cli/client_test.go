package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	customlog "github.com/mrincompetent/wireguard-exporter/pkg/log"
)

func testClient(t *testing.T, path string) *Client {
	logOutput := &bytes.Buffer{}
	log := customlog.NewTestLog(zapcore.AddSync(logOutput))
	t.Cleanup(func() { _ = log.Sync() })

	return New(path, time.Second, log)
}

func writeScript(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "wg")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDump(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\nprintf 'wg0\\t(none)\\tPUB\\t51820\\toff\\n'\n")

	out, err := testClient(t, script).Dump(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if expected := "wg0\t(none)\tPUB\t51820\toff\n"; out != expected {
		t.Errorf("got %q, expected %q", out, expected)
	}
}

func TestDumpCommandFailure(t *testing.T) {
	script := writeScript(t, "#!/bin/sh\necho boom >&2\nexit 3\n")

	_, err := testClient(t, script).Dump(context.Background())

	cmdErr := &CommandError{}
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected a CommandError, got %v", err)
	}
	if cmdErr.Stderr != "boom" {
		t.Errorf("got stderr %q, expected %q", cmdErr.Stderr, "boom")
	}
}

func TestDumpMissingBinary(t *testing.T) {
	client := testClient(t, filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := client.Dump(context.Background())

	cmdErr := &CommandError{}
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected a CommandError, got %v", err)
	}
}
