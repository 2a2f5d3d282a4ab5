package github

// Repository is the subset of repository metadata the sync engine needs.
type Repository struct {
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// RefObject is the commit a ref points at.
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

// RefResponse is returned from GET /repos/{owner}/{repo}/git/ref/heads/{branch}.
type RefResponse struct {
	Ref    string    `json:"ref"`
	Object RefObject `json:"object"`
}

// CommitTree identifies the tree a commit snapshots.
type CommitTree struct {
	SHA string `json:"sha"`
}

// CommitResponse is returned from the git commits endpoints.
type CommitResponse struct {
	SHA  string     `json:"sha"`
	Tree CommitTree `json:"tree"`
}

// TreeEntry is a single entry in a git tree. Type is "blob" for regular
// files; "tree" and "commit" (submodule) entries also appear in recursive
// listings and do not participate in diffing.
type TreeEntry struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// TreeListing is a recursive tree listing. Truncated is set by the server
// when the listing exceeded its size limit, in which case the entry set is
// incomplete.
type TreeListing struct {
	SHA       string      `json:"sha"`
	Entries   []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// createBlobRequest is the payload for POST /repos/{owner}/{repo}/git/blobs.
type createBlobRequest struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// shaResponse is the common {sha} reply from object-creation endpoints.
type shaResponse struct {
	SHA string `json:"sha"`
}

// createTreeRequest is the payload for POST /repos/{owner}/{repo}/git/trees.
// BaseTree is omitted when the entry set is complete.
type createTreeRequest struct {
	Tree     []TreeEntry `json:"tree"`
	BaseTree string      `json:"base_tree,omitempty"`
}

// createCommitRequest is the payload for POST /repos/{owner}/{repo}/git/commits.
// Parents must be non-nil so a root commit serializes as [] rather than null.
type createCommitRequest struct {
	Message string   `json:"message"`
	Tree    string   `json:"tree"`
	Parents []string `json:"parents"`
}

// createRefRequest is the payload for POST /repos/{owner}/{repo}/git/refs.
type createRefRequest struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// updateRefRequest is the payload for PATCH /repos/{owner}/{repo}/git/refs/heads/{branch}.
// Force makes the update a plain overwrite rather than a fast-forward check.
type updateRefRequest struct {
	SHA   string `json:"sha"`
	Force bool   `json:"force"`
}
