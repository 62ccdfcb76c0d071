package core

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CloneErrorKind classifies why a git clone failed.
type CloneErrorKind int

const (
	// CloneErrUnknown is an unclassified clone failure.
	CloneErrUnknown CloneErrorKind = iota
	// CloneErrAuth means authentication failed.
	CloneErrAuth
	// CloneErrRepoNotFound means the URL is wrong or access is denied.
	CloneErrRepoNotFound
	// CloneErrNetwork means the host could not be reached.
	CloneErrNetwork
	// CloneErrSSHKey means the SSH key was rejected or not found.
	CloneErrSSHKey
)

// String returns a human-readable label for the error kind.
func (k CloneErrorKind) String() string {
	switch k {
	case CloneErrAuth:
		return "authentication required"
	case CloneErrRepoNotFound:
		return "repository not found"
	case CloneErrNetwork:
		return "network error"
	case CloneErrSSHKey:
		return "ssh key error"
	default:
		return "unknown error"
	}
}

// CloneError is a structured error returned when git clone fails. It
// wraps the raw git output with a classification, the command that ran
// and its exit code.
type CloneError struct {
	Kind      CloneErrorKind
	URL       string
	Command   string
	ExitCode  int
	RawOutput string
}

// Error implements the error interface.
func (e *CloneError) Error() string {
	return fmt.Sprintf("git clone failed (%s, exit %d): %s", e.Kind, e.ExitCode, e.firstLine())
}

// firstLine returns the first informative line of raw output.
func (e *CloneError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	if e.RawOutput != "" {
		return strings.TrimSpace(e.RawOutput)
	}
	return "clone failed"
}

// classifyCloneOutput pattern-matches git stderr to an error kind.
func classifyCloneOutput(output string) CloneErrorKind {
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "permission denied (publickey)"),
		strings.Contains(lower, "no such identity"),
		strings.Contains(lower, "host key verification failed"):
		return CloneErrSSHKey
	case strings.Contains(lower, "could not read username"),
		strings.Contains(lower, "could not read password"),
		strings.Contains(lower, "authentication failed"),
		strings.Contains(lower, "invalid credentials"):
		return CloneErrAuth
	case strings.Contains(lower, "repository not found"),
		strings.Contains(lower, "does not appear to be a git repository"),
		strings.Contains(lower, "not found"):
		return CloneErrRepoNotFound
	case strings.Contains(lower, "could not resolve host"),
		strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection timed out"),
		strings.Contains(lower, "network is unreachable"):
		return CloneErrNetwork
	default:
		return CloneErrUnknown
	}
}

// maxOutputTokenSize caps a single scanned output token. Progress
// phases separated only by carriage returns can grow large; anything
// beyond this is drained without line splitting.
const maxOutputTokenSize = 1024 * 1024

// scanProgressLines is a bufio.SplitFunc that terminates tokens on
// carriage returns as well as newlines. git --progress rewrites its
// counters with bare \r, so plain line splitting would hold a whole
// progress phase back as one token.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// scanOutput reads r to EOF, emitting each non-blank line to onLine and
// returning the accumulated raw output. The reader is always fully
// consumed: if scanning fails (for example a token over the size cap),
// the remainder is drained verbatim so the writing side never blocks.
func scanOutput(r io.Reader, onLine func(string)) string {
	var raw strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxOutputTokenSize)
	scanner.Split(scanProgressLines)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		raw.WriteString(line)
		raw.WriteByte('\n')
		if onLine != nil {
			onLine(line)
		}
	}
	if scanner.Err() != nil {
		_, _ = io.Copy(&raw, r)
	}
	return raw.String()
}

// cloneShallow clones a repository at depth 1 into dir, streaming each
// output line to onLine as it arrives. There is deliberately no
// timeout: the caller owns the wait, and cleanup of dir stays with the
// caller as well.
func cloneShallow(repoURL, dir string, onLine func(string)) error {
	args := []string{"clone", "--depth", "1", "--progress", repoURL, dir}
	cmd := exec.Command("git", args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	var raw string
	done := make(chan struct{})
	go func() {
		defer close(done)
		raw = scanOutput(pr, onLine)
	}()

	err := cmd.Run()
	_ = pw.Close()
	<-done

	if err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &CloneError{
			Kind:      classifyCloneOutput(raw),
			URL:       repoURL,
			Command:   "git " + strings.Join(args, " "),
			ExitCode:  exitCode,
			RawOutput: strings.TrimSpace(raw),
		}
	}
	return nil
}
