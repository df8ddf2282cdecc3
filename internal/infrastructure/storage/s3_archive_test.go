package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lojacrm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half of a key pair returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{Bucket: "crm", AccessKey: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config", func(t *testing.T) {
		archive, err := NewS3Archive(&config.StorageConfig{
			Bucket:       "crm-uploads",
			AccessKey:    "k",
			SecretKey:    "s",
			Endpoint:     "localhost:9000",
			Prefix:       "/imports/",
			UsePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "crm-uploads", archive.Bucket())
		assert.Equal(t, "imports", archive.prefix)
	})
}

func TestS3Archive_ObjectKey(t *testing.T) {
	runID := uuid.MustParse("6f1c1a52-8d7e-4a57-9a0c-2d5f6f1d0b11")
	fixed := func() time.Time { return time.Date(2024, time.May, 7, 23, 0, 0, 0, time.UTC) }

	tests := []struct {
		name     string
		prefix   string
		fileName string
		want     string
	}{
		{"plain", "imports", "clientes.xlsx", "imports/2024/05/07/" + runID.String() + "/clientes.xlsx"},
		{"no prefix", "", "clientes.csv", "2024/05/07/" + runID.String() + "/clientes.csv"},
		{"path stripped", "imports", "../../etc/passwd", "imports/2024/05/07/" + runID.String() + "/passwd"},
		{"windows path", "imports", `C:\Users\loja\base.xlsx`, "imports/2024/05/07/" + runID.String() + "/base.xlsx"},
		{"empty name", "imports", "", "imports/2024/05/07/" + runID.String() + "/upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &S3Archive{prefix: tt.prefix, now: fixed}
			assert.Equal(t, tt.want, a.objectKey(runID, tt.fileName))
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/csv", contentTypeFor("base.CSV"))
	assert.Contains(t, contentTypeFor("base.xlsx"), "spreadsheetml")
	assert.Equal(t, "application/octet-stream", contentTypeFor("base"))
}

type recordedPut struct {
	method string
	path   string
	ctype  string
	runID  string
}

func TestS3Archive_Store(t *testing.T) {
	var (
		mu   sync.Mutex
		puts []recordedPut
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		mu.Lock()
		puts = append(puts, recordedPut{
			method: r.Method,
			path:   r.URL.Path,
			ctype:  r.Header.Get("Content-Type"),
			runID:  r.Header.Get("X-Amz-Meta-Run-Id"),
		})
		mu.Unlock()
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	archive, err := NewS3Archive(&config.StorageConfig{
		Bucket:       "crm-uploads",
		AccessKey:    "k",
		SecretKey:    "s",
		Endpoint:     server.URL,
		Prefix:       "imports",
		UsePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time {
		return time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)

	runID := uuid.New()
	key, err := archive.Store(context.Background(), runID, "clientes.csv", []byte("Nome;CPF\nAna;123\n"))
	require.NoError(t, err)
	assert.Equal(t, "imports/2024/01/02/"+runID.String()+"/clientes.csv", key)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, puts, 1)
	assert.Equal(t, http.MethodPut, puts[0].method)
	assert.Equal(t, "/crm-uploads/"+key, puts[0].path)
	assert.Equal(t, "text/csv", puts[0].ctype)
	assert.Equal(t, runID.String(), puts[0].runID)
}

func TestS3Archive_StoreFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
	}))
	defer server.Close()

	archive, err := NewS3Archive(&config.StorageConfig{
		Bucket: "crm-uploads", AccessKey: "k", SecretKey: "s",
		Endpoint: server.URL, UsePathStyle: true,
	})
	require.NoError(t, err)

	_, err = archive.Store(context.Background(), uuid.New(), "clientes.xlsx", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to archive clientes.xlsx")
}

func TestNopArchive(t *testing.T) {
	key, err := NopArchive{}.Store(context.Background(), uuid.New(), "a.csv", []byte("x"))
	assert.NoError(t, err)
	assert.Empty(t, key)
}
