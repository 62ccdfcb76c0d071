package core

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// githubHost is the code-hosting domain bare "owner/name" references
// expand against.
const githubHost = "github.com"

// ownerRepoPattern matches "owner/repo" (2 segments, no protocol).
var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// NormalizeRepoRef turns a repository reference into a cloneable URL.
//
// Supported forms:
//   - "owner/repo"                        → https://github.com/owner/repo.git
//   - "https://github.com/owner/repo/..." → canonicalized, extra path
//     segments (tree/blob views) stripped
//   - other absolute http(s), ssh and file URLs → passed through
//   - "git@host:owner/repo.git"          → passed through
func NormalizeRepoRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty repository reference")
	}

	if strings.HasPrefix(ref, "git@") || strings.HasPrefix(ref, "ssh://") {
		return ref, nil
	}

	if strings.Contains(ref, "://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("invalid repository URL: %w", err)
		}
		if (u.Scheme == "http" || u.Scheme == "https") && u.Host == githubHost {
			return canonicalGitHubURL(u)
		}
		return ref, nil
	}

	if ownerRepoPattern.MatchString(ref) {
		return fmt.Sprintf("https://%s/%s.git", githubHost, ref), nil
	}

	return "", fmt.Errorf("unrecognized repository reference: %q", ref)
}

// canonicalGitHubURL reduces a github.com URL to its owner/repo clone
// form, dropping tree/blob/branch path segments.
func canonicalGitHubURL(u *url.URL) (string, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("github URL %q has no owner/repo path", u.String())
	}
	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	return fmt.Sprintf("https://%s/%s/%s.git", githubHost, owner, repo), nil
}
