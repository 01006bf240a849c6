package repo

// Author identifies the author recorded on commits fmtbot creates.
type Author struct {
	Name  string
	Email string
}

// Gitter defines the git operations the pipeline performs on a working tree.
type Gitter interface {
	// HeadSHA returns the commit hash of HEAD.
	HeadSHA() (string, error)

	// CurrentBranch returns the name of the checked-out branch.
	CurrentBranch() (string, error)

	// HasRemote reports whether the named remote is configured.
	HasRemote(remote string) bool

	// Checkout makes the working tree match ref. When the remote is
	// configured the ref is fetched first, so the tree reflects the
	// revision the triggering event refers to.
	Checkout(remote, ref string) error

	// ChangedFiles lists working-tree paths that differ from HEAD,
	// including untracked files. Paths are relative to the repository root.
	ChangedFiles() ([]string, error)

	// Commit stages exactly the given paths and records a commit with the
	// given message and author. It returns the new commit hash.
	Commit(paths []string, message string, author Author) (string, error)

	// Push pushes ref to the named remote.
	Push(remote, ref string) error

	// Restore discards working-tree modifications to the given paths.
	Restore(paths []string) error
}
