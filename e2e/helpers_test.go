package e2e

import (
	"bytes"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// runNanogen executes the nanogen binary with the given arguments and stdin.
// Returns stdout, stderr and exit code.
func runNanogen(t *testing.T, stdin string, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	cmd := exec.Command(env.binaryPath, args...)
	cmd.Stdin = strings.NewReader(stdin)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return outBuf.String(), errBuf.String(), exitError.ExitCode()
		}
		t.Fatalf("Failed to run nanogen: %v\nStderr: %s", err, errBuf.String())
	}

	return outBuf.String(), errBuf.String(), 0
}

// createConfig writes a config file into a temporary directory
func createConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return configPath
}

// splitLines returns the non-empty lines of s
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// freeAddr returns a loopback address with an unused port
func freeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

// startServer runs "nanogen serve" with args in the background until the test ends
func startServer(t *testing.T, extraEnv []string, args ...string) {
	t.Helper()

	cmd := exec.Command(env.binaryPath, append([]string{"serve"}, args...)...)
	cmd.Env = append(os.Environ(), extraEnv...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	require.NoError(t, cmd.Start())

	t.Cleanup(func() {
		_ = cmd.Process.Signal(os.Interrupt)
		_ = cmd.Wait()
		t.Logf("Server log:\n%s", errBuf.String())
	})
}

// waitHealthy polls /healthz until the server answers
func waitHealthy(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server at %s did not become healthy", baseURL)
}
