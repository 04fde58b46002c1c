package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func TestSupabaseUploadFile(t *testing.T) {
	var gotMethod, gotPath, gotAuth, gotUpsert string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "avatars", "service-key")
	file := memFile{bytes.NewReader([]byte("image-bytes"))}

	publicURL, err := storage.UploadFile(context.Background(), file, "5-abc.png", "trainers/avatars")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/storage/v1/object/avatars/trainers/avatars/5-abc.png", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, []byte("image-bytes"), gotBody)
	assert.Equal(t, server.URL+"/storage/v1/object/public/avatars/trainers/avatars/5-abc.png", publicURL)
}

func TestSupabaseUploadFileErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"access denied"}`))
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "avatars", "service-key")
	file := memFile{bytes.NewReader([]byte("image-bytes"))}

	_, err := storage.UploadFile(context.Background(), file, "5-abc.png", "trainers/avatars")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestSupabaseDeleteFile(t *testing.T) {
	var gotMethod, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "avatars", "service-key")
	publicURL := server.URL + "/storage/v1/object/public/avatars/trainers/avatars/5-abc.png"

	require.NoError(t, storage.DeleteFile(context.Background(), publicURL))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/avatars/trainers/avatars/5-abc.png", gotPath)
}

func TestSupabaseDeleteFileIgnoresMissingObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "avatars", "service-key")
	publicURL := server.URL + "/storage/v1/object/public/avatars/trainers/avatars/gone.png"

	assert.NoError(t, storage.DeleteFile(context.Background(), publicURL))
}

func TestSupabaseDeleteFileRejectsForeignURL(t *testing.T) {
	storage := NewSupabaseStorageService("https://project.supabase.co", "avatars", "service-key")

	err := storage.DeleteFile(context.Background(), "https://elsewhere.example/some/file.png")
	assert.Error(t, err)
}
