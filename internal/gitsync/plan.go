package gitsync

import (
	"strings"

	"github.com/alexjbarnes/repo-sync/github"
)

// Upload is one file scheduled for blob creation, keyed by its full
// remote path (target prefix + local path).
type Upload struct {
	File       LocalFile
	RemotePath string
}

// Plan is the classification of one sync run. Every local file lands in
// exactly one of Added, Modified, or Skipped; Deleted is disjoint from
// all three and only populated when delete-missing is in effect.
type Plan struct {
	Uploads []Upload

	Added    []string
	Modified []string
	Skipped  []string
	Deleted  []string

	// Keep holds the original remote blob entries that carry over to
	// the new tree unchanged: everything not re-uploaded and not
	// scheduled for deletion, mode preserved verbatim.
	Keep []github.TreeEntry

	// DroppedNonBlob counts remote tree/submodule entries excluded from
	// tree reconstruction. Only blobs are preserved; a non-zero count is
	// surfaced as a warning by the engine.
	DroppedNonBlob int

	// Warnings carries non-fatal downgrades decided during planning.
	Warnings []string
}

// Changes reports whether the plan requires a new commit.
func (p *Plan) Changes() bool {
	return len(p.Uploads) > 0 || len(p.Deleted) > 0
}

// BuildPlan classifies local files against a remote tree snapshot.
// listing may be nil (first push: everything is new). Pure except for
// reading candidate file content to hash it; a file whose content
// cannot be read is classified modified so the upload stage surfaces
// the real error.
func BuildPlan(files []LocalFile, listing *github.TreeListing, opts Options) *Plan {
	plan := &Plan{}

	remote := make(map[string]github.TreeEntry)
	truncated := false

	if listing != nil {
		truncated = listing.Truncated

		for _, e := range listing.Entries {
			if e.Type != "blob" {
				plan.DroppedNonBlob++
				continue
			}

			remote[e.Path] = e
		}
	}

	touched := make(map[string]bool, len(files))
	uploading := make(map[string]bool)

	for _, f := range files {
		remotePath := JoinPrefix(opts.TargetDir, f.Path)
		if remotePath == "" || touched[remotePath] {
			continue
		}

		touched[remotePath] = true

		entry, exists := remote[remotePath]
		if !exists {
			plan.Added = append(plan.Added, remotePath)
			plan.Uploads = append(plan.Uploads, Upload{File: f, RemotePath: remotePath})
			uploading[remotePath] = true

			continue
		}

		content, err := f.Read()
		if err != nil || BlobSHA(content) != entry.SHA {
			// Unreadable counts as modified: identity unknown, upload.
			plan.Modified = append(plan.Modified, remotePath)
			plan.Uploads = append(plan.Uploads, Upload{File: f, RemotePath: remotePath})
			uploading[remotePath] = true

			continue
		}

		plan.Skipped = append(plan.Skipped, remotePath)
	}

	deleteMissing := opts.DeleteMissing
	if deleteMissing && truncated {
		// An incomplete snapshot cannot safely drive deletions.
		deleteMissing = false

		plan.Warnings = append(plan.Warnings,
			"remote tree listing was truncated; delete-missing disabled for this run")
	}

	deleting := make(map[string]bool)

	if deleteMissing && listing != nil {
		for _, e := range listing.Entries {
			if e.Type != "blob" || touched[e.Path] {
				continue
			}

			// Plain prefix match, not a segment-boundary check.
			if opts.TargetDir != "" && !strings.HasPrefix(e.Path, opts.TargetDir) {
				continue
			}

			plan.Deleted = append(plan.Deleted, e.Path)
			deleting[e.Path] = true
		}
	}

	if listing != nil {
		for _, e := range listing.Entries {
			if e.Type != "blob" || uploading[e.Path] || deleting[e.Path] {
				continue
			}

			plan.Keep = append(plan.Keep, e)
		}
	}

	return plan
}
