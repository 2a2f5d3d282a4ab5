package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const defaultBaseURL = "https://api.github.com"

const (
	// maxRedirects is the maximum number of HTTP redirects to follow
	// before giving up, matching the default net/http limit.
	maxRedirects = 10

	// httpClientTimeout is the timeout for the default HTTP client used
	// when no custom client is provided. Blob creation for large files
	// can be slow, so this is generous.
	httpClientTimeout = 60 * time.Second

	// maxAPIResponseBytes caps response body reads. Recursive tree
	// listings of large repositories are the biggest responses we see.
	maxAPIResponseBytes = 32 * 1024 * 1024

	// apiVersion is sent in the X-GitHub-Api-Version header.
	apiVersion = "2022-11-28"
)

// Client talks to the GitHub REST data API for a single repository.
// It is stateless: every call is an independent authenticated request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       Repo
}

// sameHostRedirectPolicy follows redirects only when the target host
// matches the original request host. This prevents the bearer token
// from leaking to third-party domains.
func sameHostRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return errors.New("stopped after 10 redirects")
	}

	if len(via) > 0 {
		origHost := via[0].URL.Host
		if req.URL.Host != origHost {
			return fmt.Errorf("redirect to different host blocked: %s -> %s", origHost, req.URL.Host)
		}
	}

	return nil
}

// NewClient creates a client for the given repository. The token is
// cleaned of invisible characters before use. If httpClient is nil, a
// client with a 60-second timeout and same-host redirect policy is used.
func NewClient(repo Repo, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:       httpClientTimeout,
			CheckRedirect: sameHostRedirectPolicy,
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		token:      CleanToken(token),
		repo:       repo,
	}
}

// Repo returns the repository this client targets.
func (c *Client) Repo() Repo { return c.repo }

// sanitizeResponseBody truncates and sanitizes a response body for
// inclusion in error messages. Limits to 256 bytes and replaces
// non-printable characters to prevent log injection.
func sanitizeResponseBody(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		body = body[:maxLen]
	}

	var clean []byte

	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size <= 1 {
			clean = append(clean, '?')
			body = body[1:]

			continue
		}

		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			clean = append(clean, '?')
		} else {
			clean = append(clean, body[:size]...)
		}

		body = body[size:]
	}

	return string(clean)
}

// do sends an authenticated JSON request and decodes the response into
// result. Non-2xx responses are mapped to typed errors with the
// provider's message preserved.
func (c *Client) do(ctx context.Context, method, endpoint string, body, result interface{}) error {
	var reqBody io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}

		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.apiError(endpoint, resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response from %s: %w", endpoint, err)
		}
	}

	return nil
}

// apiError builds a typed error for a non-2xx response. The "message"
// field is pulled out of the body without committing to a full error
// schema, since GitHub error bodies vary by endpoint.
func (c *Client) apiError(endpoint string, status int, body []byte) error {
	msg := gjson.GetBytes(body, "message").Str
	if msg == "" {
		msg = sanitizeResponseBody(body)
	}

	apiErr := &APIError{StatusCode: status, Message: msg, Endpoint: endpoint}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Err: apiErr}
	case http.StatusNotFound:
		return &NotFoundError{Err: apiErr}
	}

	return apiErr
}

func (c *Client) repoPath(suffix string) string {
	return "/repos/" + c.repo.Owner + "/" + c.repo.Name + suffix
}

// GetRepository fetches repository metadata. A NotFound error here means
// the repository itself is absent (or the token cannot see it), which is
// fatal, unlike a missing branch.
func (c *Client) GetRepository(ctx context.Context) (*Repository, error) {
	var repo Repository
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &repo); err != nil {
		return nil, fmt.Errorf("fetching repository %s: %w", c.repo, err)
	}

	return &repo, nil
}

// ResolveBranchHead returns the commit SHA the branch currently points
// at. A NotFound error means the branch does not exist yet.
func (c *Client) ResolveBranchHead(ctx context.Context, branch string) (string, error) {
	var ref RefResponse
	if err := c.do(ctx, http.MethodGet, c.repoPath("/git/ref/heads/"+branch), nil, &ref); err != nil {
		return "", fmt.Errorf("resolving head of %s: %w", branch, err)
	}

	return ref.Object.SHA, nil
}

// ListTreeRecursive returns the full tree snapshot of a commit. The
// listing's Truncated flag is preserved: a truncated listing is an
// incomplete snapshot and must not be used to infer deletions.
func (c *Client) ListTreeRecursive(ctx context.Context, commitSHA string) (*TreeListing, error) {
	var commit CommitResponse
	if err := c.do(ctx, http.MethodGet, c.repoPath("/git/commits/"+commitSHA), nil, &commit); err != nil {
		return nil, fmt.Errorf("fetching commit %s: %w", commitSHA, err)
	}

	var listing TreeListing
	if err := c.do(ctx, http.MethodGet, c.repoPath("/git/trees/"+commit.Tree.SHA+"?recursive=1"), nil, &listing); err != nil {
		return nil, fmt.Errorf("listing tree of %s: %w", commitSHA, err)
	}

	return &listing, nil
}

// CreateBlob uploads raw content as a blob object and returns its SHA.
// Content is base64-encoded for transport so binary files round-trip.
func (c *Client) CreateBlob(ctx context.Context, content []byte) (string, error) {
	req := createBlobRequest{
		Content:  base64.StdEncoding.EncodeToString(content),
		Encoding: "base64",
	}

	var resp shaResponse
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/blobs"), req, &resp); err != nil {
		return "", fmt.Errorf("creating blob: %w", err)
	}

	return resp.SHA, nil
}

// CreateTree creates a tree object from a complete entry set and returns
// its SHA. No base tree is supplied: entries fully describe the snapshot.
func (c *Client) CreateTree(ctx context.Context, entries []TreeEntry) (string, error) {
	req := createTreeRequest{Tree: entries}

	var resp shaResponse
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/trees"), req, &resp); err != nil {
		return "", fmt.Errorf("creating tree: %w", err)
	}

	return resp.SHA, nil
}

// CreateCommit creates a commit object pointing at treeSHA. An empty
// parents slice creates a root commit.
func (c *Client) CreateCommit(ctx context.Context, message, treeSHA string, parents []string) (string, error) {
	if parents == nil {
		parents = []string{}
	}

	req := createCommitRequest{Message: message, Tree: treeSHA, Parents: parents}

	var resp CommitResponse
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/commits"), req, &resp); err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}

	return resp.SHA, nil
}

// CreateRef creates a new branch ref pointing at commitSHA. Used on
// first push when the branch did not previously exist.
func (c *Client) CreateRef(ctx context.Context, branch, commitSHA string) error {
	req := createRefRequest{Ref: "refs/heads/" + branch, SHA: commitSHA}

	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/refs"), req, nil); err != nil {
		return fmt.Errorf("creating ref %s: %w", branch, err)
	}

	return nil
}

// UpdateRef moves an existing branch ref to commitSHA. The update is
// forced: the tool always overwrites on mismatch, never merges.
func (c *Client) UpdateRef(ctx context.Context, branch, commitSHA string) error {
	req := updateRefRequest{SHA: commitSHA, Force: true}

	if err := c.do(ctx, http.MethodPatch, c.repoPath("/git/refs/heads/"+branch), req, nil); err != nil {
		return fmt.Errorf("updating ref %s: %w", branch, err)
	}

	return nil
}
