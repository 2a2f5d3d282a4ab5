package gitsync

import (
	"crypto/sha1" //nolint:gosec // G505: git blob identity is defined over SHA-1
	"encoding/hex"
	"fmt"
)

// BlobSHA computes the git blob object identity for content: SHA-1 over
// "blob <decimal length>\x00" followed by the raw bytes, rendered as
// lowercase hex. Matching git's own hashing lets unchanged files be
// detected against remote tree SHAs without transferring content.
func BlobSHA(content []byte) string {
	h := sha1.New() //nolint:gosec // G401: see above
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)

	return hex.EncodeToString(h.Sum(nil))
}
