package repo

import (
	"fmt"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
// All commands run against the repository at Dir.
type CLIGitter struct {
	dir string
}

// NewCLIGitter creates a new CLIGitter operating on the repository at dir.
func NewCLIGitter(dir string) *CLIGitter {
	return &CLIGitter{dir: dir}
}

// gitRaw runs a git command in the repository directory and returns its
// combined output verbatim.
func (g *CLIGitter) gitRaw(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w (output: %s)",
			args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

// git runs a git command and returns its combined output, trimmed. Output
// where leading whitespace is significant must go through gitRaw instead.
func (g *CLIGitter) git(args ...string) (string, error) {
	out, err := g.gitRaw(args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// HeadSHA returns the commit hash of HEAD.
func (g *CLIGitter) HeadSHA() (string, error) {
	return g.git("rev-parse", "HEAD")
}

// CurrentBranch returns the name of the checked-out branch.
func (g *CLIGitter) CurrentBranch() (string, error) {
	branch, err := g.git("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch == "HEAD" {
		return "", &DetachedHeadError{}
	}
	return branch, nil
}

// HasRemote reports whether the named remote is configured.
func (g *CLIGitter) HasRemote(remote string) bool {
	_, err := g.git("remote", "get-url", remote)
	return err == nil
}

// Checkout makes the working tree match ref. When the remote is configured,
// the ref is fetched first and the local branch is reset to the fetched tip;
// otherwise the local ref is checked out as-is.
func (g *CLIGitter) Checkout(remote, ref string) error {
	if g.HasRemote(remote) {
		if _, err := g.git("fetch", remote, ref); err != nil {
			return &CheckoutError{Ref: ref, Wrapped: err}
		}
		if _, err := g.git("checkout", "-B", ref, "FETCH_HEAD"); err != nil {
			return &CheckoutError{Ref: ref, Wrapped: err}
		}
		return nil
	}

	if _, err := g.git("checkout", ref); err != nil {
		return &CheckoutError{Ref: ref, Wrapped: err}
	}
	return nil
}

// ChangedFiles lists working-tree paths that differ from HEAD, including
// untracked files.
func (g *CLIGitter) ChangedFiles() ([]string, error) {
	// -z terminates each entry with NUL and disables git's C-style quoting,
	// so paths with spaces or non-ASCII bytes come through verbatim.
	out, err := g.gitRaw("status", "--porcelain", "-z")
	if err != nil {
		return nil, err
	}

	entries := strings.Split(out, "\x00")
	paths := make([]string, 0, len(entries))
	for i := 0; i < len(entries); i++ {
		entry := entries[i]
		// Each entry is a two-character status code, a space, then the path.
		if len(entry) < 4 {
			continue
		}
		status, path := entry[:2], entry[3:]
		paths = append(paths, path)
		// Renames and copies carry the origin path as the next entry; only
		// the new path is present in the tree.
		if strings.ContainsAny(status, "RC") {
			i++
		}
	}
	return paths, nil
}

// Commit stages exactly the given paths and records a commit. The commit
// contains only what the formatters changed; nothing else is staged.
func (g *CLIGitter) Commit(paths []string, message string, author Author) (string, error) {
	if len(paths) == 0 {
		return "", &NothingToCommitError{}
	}

	addArgs := append([]string{"add", "--"}, paths...)
	if _, err := g.git(addArgs...); err != nil {
		return "", &CommitError{Wrapped: err}
	}

	commitArgs := []string{
		"-c", "user.name=" + author.Name,
		"-c", "user.email=" + author.Email,
		"commit", "-m", message,
	}
	if _, err := g.git(commitArgs...); err != nil {
		return "", &CommitError{Wrapped: err}
	}

	return g.HeadSHA()
}

// Push pushes ref to the named remote.
func (g *CLIGitter) Push(remote, ref string) error {
	if _, err := g.git("push", remote, ref); err != nil {
		return &PushError{Remote: remote, Ref: ref, Wrapped: err}
	}
	return nil
}

// Restore discards working-tree modifications to the given paths. Untracked
// paths are removed.
func (g *CLIGitter) Restore(paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tracked := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := g.git("ls-files", "--error-unmatch", "--", p); err != nil {
			// Untracked: restore cannot touch it, remove via clean.
			if _, cErr := g.git("clean", "-f", "--", p); cErr != nil {
				return cErr
			}
			continue
		}
		tracked = append(tracked, p)
	}

	if len(tracked) == 0 {
		return nil
	}
	restoreArgs := append([]string{"restore", "--"}, tracked...)
	_, err := g.git(restoreArgs...)
	return err
}
