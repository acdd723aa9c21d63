package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasplabs/dasp/pkg/af"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr strings.Builder
	code := Run(append([]string{"dasp"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_VersionBanner(t *testing.T) {
	code, stdout, _ := runCLI(t)
	assert.Equal(t, 0, code)
	assert.Equal(t, "dasp v"+version+"\n", stdout)
}

func TestRun_ProblemsAndFormats(t *testing.T) {
	code, stdout, _ := runCLI(t, "--problems")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "["))
	assert.Contains(t, stdout, "EE-CO")
	assert.Contains(t, stdout, "CE-ST-D")
	assert.Contains(t, stdout, "DS-GR")

	code, stdout, _ = runCLI(t, "--formats")
	assert.Equal(t, 0, code)
	assert.Equal(t, "[apx,tgf]\n", stdout)
}

func TestRun_UsageErrors(t *testing.T) {
	code, _, stderr := runCLI(t, "--task", "EE-CO")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--file")

	code, _, _ = runCLI(t, "--file", "x", "--task", "ZZ-CO")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "--file", "x", "--task", "EE-CO-X")
	assert.Equal(t, 2, code)

	file := writeFile(t, "af.apx", "arg(a1).")
	code, _, stderr = runCLI(t, "--file", file, "--task", "DC-CO")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--arg")
}

func TestRun_EnumerateStable(t *testing.T) {
	file := writeFile(t, "af.tgf", "1\n2\n#\n2 1")
	code, stdout, _ := runCLI(t, "--file", file, "--task", "EE-ST")
	assert.Equal(t, 0, code)
	assert.Equal(t, "[2]\n", stdout)
}

func TestRun_CountAdmissible(t *testing.T) {
	file := writeFile(t, "af.apx", `
		arg(a1). arg(a2). arg(a3).
		att(a1, a3).
		att(a2, a3).
		att(a3, a2).
	`)
	code, stdout, _ := runCLI(t, "--file", file, "--task", "CE-AD")
	assert.Equal(t, 0, code)
	assert.Equal(t, "4\n", stdout)
}

func TestRun_SampleUnsatisfiableStable(t *testing.T) {
	file := writeFile(t, "af.apx", "arg(1). arg(2). att(1,2). att(1,1).")
	code, stdout, _ := runCLI(t, "--file", file, "--task", "SE-ST")
	assert.Equal(t, 0, code)
	assert.Equal(t, "NO\n", stdout)
}

func TestRun_Acceptance(t *testing.T) {
	file := writeFile(t, "af.apx", `
		arg(1). arg(2). arg(3).
		att(1, 3).
		att(2, 3).
		att(3, 2).
	`)
	code, stdout, _ := runCLI(t, "--file", file, "--task", "DC-CO", "--arg", "1")
	assert.Equal(t, 0, code)
	assert.Equal(t, "YES\n", stdout)

	code, stdout, _ = runCLI(t, "--file", file, "--task", "DS-CO", "--arg", "3")
	assert.Equal(t, 0, code)
	assert.Equal(t, "NO\n", stdout)
}

// TestRun_DynamicCount verifies one result per revision: the initial
// framework plus one re-count after every update line.
func TestRun_DynamicCount(t *testing.T) {
	file := writeFile(t, "af.apx", `
		arg(alpha).
		arg(beta).
		att(alpha, beta). opt(att(alpha, beta)).
	`)
	updates := writeFile(t, "af.apxm", "+att(alpha, beta).\n-att(alpha, beta).\n")

	code, stdout, _ := runCLI(t, "--file", file, "--task", "CE-AD-D", "--update-file", updates)
	assert.Equal(t, 0, code)
	assert.Equal(t, "4\n2\n4\n", stdout)
}

func TestRun_DynamicStopsOnRejectedUpdate(t *testing.T) {
	file := writeFile(t, "af.apx", "arg(alpha).")
	updates := writeFile(t, "af.apxm", "-arg(alpha).\n")

	code, _, stderr := runCLI(t, "--file", file, "--task", "CE-AD-D", "--update-file", updates)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "applying update")
}

func TestRun_KeepGoingSkipsRejectedUpdates(t *testing.T) {
	file := writeFile(t, "af.apx", `
		arg(alpha).
		arg(beta). opt(arg(beta)).
	`)
	updates := writeFile(t, "af.apxm", "-arg(alpha).\n+arg(beta).\n")

	code, stdout, _ := runCLI(t, "--file", file, "--task", "CE-AD-D", "--update-file", updates, "--keep-going")
	assert.Equal(t, 0, code)
	assert.Equal(t, "2\n4\n", stdout)
}

// TestRun_StdinUpdatesStopAtEmptyLine verifies interactive streams end
// at the first empty line.
func TestRun_StdinUpdatesStopAtEmptyLine(t *testing.T) {
	old := stdin
	stdin = strings.NewReader("+arg(beta).\n\n+arg(beta).\n")
	t.Cleanup(func() { stdin = old })

	file := writeFile(t, "af.apx", "arg(alpha). arg(beta). opt(arg(beta)).")
	code, stdout, _ := runCLI(t, "--file", file, "--task", "CE-AD-D")
	assert.Equal(t, 0, code)
	assert.Equal(t, "2\n4\n", stdout)
}

func TestRun_MissingInitialFile(t *testing.T) {
	code, _, _ := runCLI(t, "--file", filepath.Join(t.TempDir(), "nope.apx"), "--task", "EE-AD")
	assert.Equal(t, 1, code)
}

func TestRun_GenWritesParsableFiles(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "bench")
	code, stdout, stderr := runCLI(t, "gen",
		"--output", prefix,
		"-n", "12",
		"--updates", "6",
		"--seed", "3",
		"--format", "tgf",
	)
	require.Equal(t, 0, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "bench-initial.tgf")
	assert.Contains(t, stdout, "bench-updates.tgfm")

	content, err := os.ReadFile(prefix + "-initial.tgf")
	require.NoError(t, err)
	args, _, err := af.ParseFramework(string(content))
	require.NoError(t, err)
	assert.Len(t, args, 12)

	updates, err := os.ReadFile(prefix + "-updates.tgfm")
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimSpace(string(updates)), "\n") {
		if line == "" {
			continue
		}
		_, err := af.ParseUpdateLine(line)
		assert.NoError(t, err, "line %q", line)
	}
}

func TestRun_GenRequiresOutput(t *testing.T) {
	code, _, stderr := runCLI(t, "gen", "-n", "5")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--output")
}

func TestRun_Help(t *testing.T) {
	var stdout strings.Builder
	code := Run([]string{"dasp", "help"}, &stdout, io.Discard)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Usage:")
}
