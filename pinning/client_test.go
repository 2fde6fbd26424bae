package pinning

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/realmhunter/nbctl/util/account"
)

func writeImage(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o644))
	return path
}

func TestStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/store", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		meta := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("meta")), &meta))
		require.Equal(t, "NBMon", meta["name"])
		require.Equal(t, "NBMons are cool", meta["description"])

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "cat.png", header.Filename)
		require.Equal(t, "image/png", header.Header.Get("Content-Type"))
		content, _ := io.ReadAll(file)
		require.Equal(t, "\x89PNG fake", string(content))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"value":{"ipnft":"bafyabc","url":"ipfs://bafyabc/metadata.json","data":{"image":"ipfs://bafyimg/cat.png"}}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL+"/", "secret").Store(context.Background(), Metadata{
		Name:        "NBMon",
		Description: "NBMons are cool",
		Image:       writeImage(t),
	})
	require.NoError(t, err)
	require.Equal(t, "bafyabc", res.IPNFT)
	require.Equal(t, "ipfs://bafyabc/metadata.json", res.URL)
	require.Equal(t, "ipfs://bafyimg/cat.png", res.ImageURL)
}

func TestStoreRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error":{"name":"HTTPError","message":"API Key is missing"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Store(context.Background(), Metadata{
		Name: "NBMon", Description: "d", Image: writeImage(t),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "API Key is missing")
}

func TestStoreValidation(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "secret")
	_, err := c.Store(context.Background(), Metadata{Name: "NBMon"})
	require.Error(t, err)
	_, err = c.Store(context.Background(), Metadata{Name: "NBMon", Description: "d", Image: "missing.png"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "couldn't read image")
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv(TokenVariable, "")
	_, err := NewClientFromEnv("")
	require.ErrorIs(t, err, account.ErrMissingCredential)

	t.Setenv(TokenVariable, "secret")
	c, err := NewClientFromEnv("")
	require.NoError(t, err)
	require.Equal(t, DefaultEndpoint, c.endpoint)
}
