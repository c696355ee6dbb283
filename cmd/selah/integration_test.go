package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rcosta/selah/internal/tuitest"
)

// The home screen renders without network access, so the scripture and
// Gemini endpoints point at unroutable ports to keep the run hermetic.
func TestSelahHomeScreen(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{
			binary,
			"-no-alt-screen",
			"-data-dir", t.TempDir(),
			"-bible-api", "http://127.0.0.1:1",
			"-gemini-endpoint", "http://127.0.0.1:1",
		},
		Dir:    cmdDir,
		Width:  100,
		Height: 32,
		Steps: []tuitest.Step{
			{Delay: time.Second},
			{Input: []byte("?")},
			{Delay: time.Second},
			{Input: tuitest.KeyCtrlC},
		},
		Timeout:        8 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatalf("no frames captured")
	}

	for _, want := range []string{
		"S E L A H",
		"Read, mark, and study the scriptures from your terminal.",
		"Continue Reading",
		"Verse of the Day",
		"Quick Actions",
	} {
		if !strings.Contains(frame.Plain, want) {
			t.Errorf("final frame missing %q\n%s", want, frame.Plain)
		}
	}
}

func TestEnvOrPrefersEnvironment(t *testing.T) {
	t.Setenv("SELAH_DATA_DIR", "/tmp/selah-state")
	if got := envOr("SELAH_DATA_DIR", "/fallback"); got != "/tmp/selah-state" {
		t.Fatalf("envOr = %q", got)
	}
	t.Setenv("SELAH_DATA_DIR", "")
	if got := envOr("SELAH_DATA_DIR", "/fallback"); got != "/fallback" {
		t.Fatalf("envOr = %q", got)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "selah-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
