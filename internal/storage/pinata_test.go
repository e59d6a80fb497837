package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parthparmar07/ChainFund/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(endpoint string) *PinataClient {
	return NewPinataClient(config.IPFSConfig{
		PinataApiKey:    "test-key",
		PinataSecretKey: "test-secret",
		Endpoint:        endpoint,
	})
}

func TestUpload_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("pinata_api_key"))
		assert.Equal(t, "test-secret", r.Header.Get("pinata_secret_api_key"))

		// 校验multipart表单携带了文件内容
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "proof.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("proof-bytes"), content)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"IpfsHash":"QmTestHash123"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	hash, err := client.Upload(context.Background(), []byte("proof-bytes"), "proof.pdf")
	require.NoError(t, err)
	assert.Equal(t, "QmTestHash123", hash)
}

func TestUpload_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Upload(context.Background(), []byte("data"), "f.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestUpload_MissingHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Upload(context.Background(), []byte("data"), "f.txt")
	require.Error(t, err)
}

func TestUpload_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"IpfsHash":"QmUnreachable"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.Upload(ctx, []byte("data"), "f.txt")
	require.Error(t, err)
}
