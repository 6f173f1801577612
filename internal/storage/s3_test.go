package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"alcyxob/fittrack/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
}

func newFakeS3(t *testing.T) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path})
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func newTestStorage(t *testing.T, endpoint string) FileStorage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        endpoint,
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "fittrack",
	})
	require.NoError(t, err)
	return fs
}

func TestS3Storage_PutAndDelete(t *testing.T) {
	srv, requests := newFakeS3(t)
	fs := newTestStorage(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, fs.PutObject(ctx, "exports/u1/a.json", "application/json", []byte(`{"ok":true}`)))
	require.NoError(t, fs.DeleteObject(ctx, "exports/u1/a.json"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/fittrack/exports/u1/a.json", got[0].path)
	assert.Equal(t, http.MethodDelete, got[1].method)
}

func TestS3Storage_PresignedDownloadURL(t *testing.T) {
	srv, requests := newFakeS3(t)
	fs := newTestStorage(t, srv.URL)

	url, err := fs.GeneratePresignedDownloadURL(context.Background(), "exports/u1/a.json", 5*time.Minute)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, srv.URL+"/fittrack/exports/u1/a.json?"), url)
	assert.Contains(t, url, "X-Amz-Expires=300")
	assert.Empty(t, requests(), "presigning is offline")
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://127.0.0.1:9000", endpointURL("http://127.0.0.1:9000", true))
}

func TestS3Storage_BareEndpointWithoutSSL(t *testing.T) {
	srv, requests := newFakeS3(t)
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        strings.TrimPrefix(srv.URL, "http://"),
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "fittrack",
		UseSSL:          false,
	})
	require.NoError(t, err)

	require.NoError(t, fs.PutObject(context.Background(), "exports/u1/b.json", "application/json", []byte(`{}`)))
	require.Len(t, requests(), 1)
}
