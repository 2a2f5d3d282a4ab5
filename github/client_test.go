package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a Client pointed at the given httptest server.
func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		httpClient: srv.Client(),
		baseURL:    srv.URL,
		token:      "test-token",
		repo:       Repo{Owner: "octo", Name: "widgets"},
	}
}

// --- do() internals ---

func TestDo_SetsAuthAndAcceptHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, apiVersion, r.Header.Get("X-GitHub-Api-Version"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.NoError(t, err)
}

func TestDo_NonOKStatusPreservesProviderMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Tree SHA is not a tree object"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodPost, "/test", struct{}{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tree SHA is not a tree object")
	assert.Contains(t, err.Error(), "422")
}

func TestDo_NonJSONErrorBodySanitized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("Bad Gateway\x00\x01"))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad Gateway")
	assert.NotContains(t, err.Error(), "\x00")
}

func TestDo_UnauthorizedIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Bad credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err), "401 should map to AuthError")
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Bad credentials")
}

func TestDo_ForbiddenIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Resource not accessible by integration"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestDo_NotFoundIsNotFoundError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	err := c.do(context.Background(), http.MethodGet, "/test", nil, nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsAuthError(err))
}

// --- endpoint wrappers ---

func TestResolveBranchHead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/widgets/git/ref/heads/main", r.URL.Path)
		w.Write([]byte(`{"ref":"refs/heads/main","object":{"sha":"abc123","type":"commit"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	sha, err := c.ResolveBranchHead(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestResolveBranchHead_MissingBranch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.ResolveBranchHead(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListTreeRecursive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/widgets/git/commits/abc123":
			w.Write([]byte(`{"sha":"abc123","tree":{"sha":"tree456"}}`))
		case "/repos/octo/widgets/git/trees/tree456":
			assert.Equal(t, "1", r.URL.Query().Get("recursive"))
			w.Write([]byte(`{
				"sha":"tree456",
				"tree":[
					{"path":"a.txt","mode":"100644","type":"blob","sha":"blob1"},
					{"path":"sub","mode":"040000","type":"tree","sha":"tree7"},
					{"path":"sub/b.txt","mode":"100755","type":"blob","sha":"blob2"}
				],
				"truncated":true
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv)
	listing, err := c.ListTreeRecursive(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, listing.Entries, 3)
	assert.True(t, listing.Truncated)
	assert.Equal(t, "sub/b.txt", listing.Entries[2].Path)
	assert.Equal(t, "100755", listing.Entries[2].Mode)
}

func TestCreateBlob_Base64EncodesContent(t *testing.T) {
	content := []byte{0x00, 0xff, 'h', 'i'}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/widgets/git/blobs", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, _ := io.ReadAll(r.Body)

		var req createBlobRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "base64", req.Encoding)

		decoded, err := base64.StdEncoding.DecodeString(req.Content)
		require.NoError(t, err)
		assert.Equal(t, content, decoded)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sha":"blobsha"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	sha, err := c.CreateBlob(context.Background(), content)
	require.NoError(t, err)
	assert.Equal(t, "blobsha", sha)
}

func TestCreateCommit_RootCommitSerializesEmptyParents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"parents":[]`)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sha":"commitsha","tree":{"sha":"treesha"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	sha, err := c.CreateCommit(context.Background(), "initial", "treesha", nil)
	require.NoError(t, err)
	assert.Equal(t, "commitsha", sha)
}

func TestCreateRef(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/widgets/git/refs", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		body, _ := io.ReadAll(r.Body)

		var req createRefRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "refs/heads/feature", req.Ref)
		assert.Equal(t, "abc", req.SHA)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.CreateRef(context.Background(), "feature", "abc"))
}

func TestUpdateRef_IsForced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/widgets/git/refs/heads/main", r.URL.Path)
		assert.Equal(t, http.MethodPatch, r.Method)

		body, _ := io.ReadAll(r.Body)

		var req updateRefRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.True(t, req.Force)
		assert.Equal(t, "abc", req.SHA)

		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	require.NoError(t, c.UpdateRef(context.Background(), "main", "abc"))
}

func TestGetRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/widgets", r.URL.Path)
		w.Write([]byte(`{"full_name":"octo/widgets","default_branch":"trunk","private":true}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	repo, err := c.GetRepository(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "trunk", repo.DefaultBranch)
	assert.True(t, repo.Private)
}

func TestSanitizeResponseBody(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"plain text", []byte("hello"), "hello"},
		{"control chars replaced", []byte("a\x00b"), "a?b"},
		{"newlines kept", []byte("a\nb"), "a\nb"},
		{"invalid utf8 replaced", []byte{0xff, 'x'}, "?x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeResponseBody(tt.input))
		})
	}
}
