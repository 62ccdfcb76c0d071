package core

import (
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestClassifyCloneOutput(t *testing.T) {
	tests := []struct {
		output string
		want   CloneErrorKind
	}{
		{"Permission denied (publickey).", CloneErrSSHKey},
		{"Host key verification failed.", CloneErrSSHKey},
		{"fatal: could not read Username for 'https://github.com'", CloneErrAuth},
		{"remote: Invalid credentials", CloneErrAuth},
		{"ERROR: Repository not found.", CloneErrRepoNotFound},
		{"fatal: 'skills' does not appear to be a git repository", CloneErrRepoNotFound},
		{"fatal: unable to access: Could not resolve host: github.com", CloneErrNetwork},
		{"connect: Connection refused", CloneErrNetwork},
		{"something else entirely", CloneErrUnknown},
		{"", CloneErrUnknown},
	}
	for _, tt := range tests {
		if got := classifyCloneOutput(tt.output); got != tt.want {
			t.Errorf("classifyCloneOutput(%q) = %v, want %v", tt.output, got, tt.want)
		}
	}
}

func TestScanOutput_CarriageReturnProgress(t *testing.T) {
	// git --progress rewrites counters with bare \r; each update must
	// stream as its own line.
	input := "Cloning into 'x'...\nReceiving objects: 10%\rReceiving objects: 50%\rReceiving objects: 100%, done.\n"

	var lines []string
	raw := scanOutput(strings.NewReader(input), func(line string) {
		lines = append(lines, line)
	})

	want := []string{
		"Cloning into 'x'...",
		"Receiving objects: 10%",
		"Receiving objects: 50%",
		"Receiving objects: 100%, done.",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i, l := range lines {
		if l != want[i] {
			t.Errorf("line %d = %q, want %q", i, l, want[i])
		}
	}
	if !strings.Contains(raw, "Receiving objects: 50%") {
		t.Errorf("raw output missing progress updates:\n%s", raw)
	}
}

func TestScanOutput_CRLF(t *testing.T) {
	var lines []string
	scanOutput(strings.NewReader("first\r\nsecond\r\n"), func(line string) {
		lines = append(lines, line)
	})
	if len(lines) != 2 || lines[0] != "first" || lines[1] != "second" {
		t.Errorf("lines = %q, want [first second]", lines)
	}
}

func TestScanOutput_OversizedTokenDoesNotBlockWriter(t *testing.T) {
	// A terminator-free blob larger than the token cap must not stall
	// the reader: the writing side has to reach EOF and scanOutput has
	// to return.
	blob := strings.Repeat("a", maxOutputTokenSize+4096)

	pr, pw := io.Pipe()
	go func() {
		_, _ = io.Copy(pw, strings.NewReader(blob))
		_ = pw.Close()
	}()

	done := make(chan string, 1)
	go func() {
		done <- scanOutput(pr, nil)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("scanOutput did not finish; oversized token stalled the pipe")
	}
}

func TestCloneError_FirstLineSkipsNoise(t *testing.T) {
	e := &CloneError{
		Kind:      CloneErrRepoNotFound,
		ExitCode:  128,
		RawOutput: "Cloning into '/tmp/x'...\n\nERROR: Repository not found.",
	}
	msg := e.Error()
	if !strings.Contains(msg, "repository not found") {
		t.Errorf("Error() = %q, missing kind label", msg)
	}
	if !strings.Contains(msg, "ERROR: Repository not found.") {
		t.Errorf("Error() = %q, missing first informative line", msg)
	}
	if !strings.Contains(msg, "128") {
		t.Errorf("Error() = %q, missing exit code", msg)
	}
}

func TestCloneShallow_LocalRepo(t *testing.T) {
	src := t.TempDir()
	writeSkill(t, src, "greet", "greet")
	initGitRepo(t, src)

	dest := t.TempDir() + "/checkout"
	var lines []string
	err := cloneShallow("file://"+src, dest, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("cloneShallow: %v", err)
	}
	if len(lines) == 0 {
		t.Error("no output lines streamed")
	}
}

func TestCloneShallow_MissingRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	err := cloneShallow("file:///nonexistent-repo-path", t.TempDir()+"/checkout", nil)
	if err == nil {
		t.Fatal("expected clone failure")
	}
	ce, ok := err.(*CloneError)
	if !ok {
		t.Fatalf("error type = %T, want *CloneError", err)
	}
	if ce.ExitCode == 0 {
		t.Error("exit code not captured")
	}
}
