//go:build basic || database

// Package integration contains integration tests for sunspot.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends need Docker: go test -tags database ./integration
package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedSunspotPath holds the path to a shared sunspot binary built once for all tests.
	sharedSunspotPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getSunspotBinary returns the path to the sunspot binary, building it once if needed.
func getSunspotBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "sunspot-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		sunspotPath := filepath.Join(tempDir, "sunspot")
		buildCmd := exec.Command("go", "build", "-o", sunspotPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build sunspot: %v\n%s", err, out))
		}

		sharedSunspotPath = sunspotPath
	})

	return sharedSunspotPath
}

// testdataSources returns --source flags pointing every origin at the testdata tables.
func testdataSources(t *testing.T) []string {
	t.Helper()
	abs := func(name string) string {
		p, err := filepath.Abs(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("resolve testdata: %v", err)
		}
		return p
	}
	return []string{
		"--source", "benin=" + abs("benin.csv"),
		"--source", "togo=" + abs("togo.csv"),
		"--source", "sierra leone=" + abs("sierraleone.csv"),
	}
}

// runSunspot runs the binary from the project root and returns stdout and stderr.
func runSunspot(t *testing.T, env []string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getSunspotBinary(), args...)
	cmd.Dir = ".." // Run from project root
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
	}
	return stdout.String(), stderr.String(), err
}
