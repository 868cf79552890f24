package cleantalk_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/maskrapp/spamguard/internal/cleantalk"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncEmptyKey(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	require.NoError(t, store.SetAccessKey(ctx, "old"))
	c := cleantalk.New(store)

	background := c.SyncAccessKey(ctx, "", false, true)
	assert.True(t, background.Success)
	assert.Equal(t, "key is empty", background.Message)

	direct := c.SyncAccessKey(ctx, "", true, true)
	assert.False(t, direct.Success)
	assert.Equal(t, "key is empty", direct.Message)

	key, _ := store.AccessKey(ctx)
	assert.Empty(t, key)
}

func TestSyncValidKey(t *testing.T) {
	ctx := context.Background()
	v := newVendor(t, http.StatusOK, `{"data":{"valid":1,"paid_till":"2030-01-01"}}`)
	store := storage.NewMemory()
	c := v.client(store)

	result := c.SyncAccessKey(ctx, "new-key", true, true)
	assert.True(t, result.Success)

	key, _ := store.AccessKey(ctx)
	assert.Equal(t, "new-key", key)

	form, err := url.ParseQuery(string(v.last.Load().([]byte)))
	require.NoError(t, err)
	assert.Equal(t, "notice_paid_till", form.Get("method_name"))
	assert.Equal(t, "new-key", form.Get("auth_key"))
}

func TestSyncWithoutPersist(t *testing.T) {
	ctx := context.Background()
	v := newVendor(t, http.StatusOK, `{"data":{}}`)
	store := storage.NewMemory()
	c := v.client(store)

	assert.True(t, c.SyncAccessKey(ctx, "new-key", true, false).Success)
	key, _ := store.AccessKey(ctx)
	assert.Empty(t, key)
}

func TestSyncFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"empty body", http.StatusOK, "", "content not found"},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, "response code error: 500 - Internal Server Error"},
		{"not json", http.StatusOK, "nope", "decoded response null"},
		{"json null", http.StatusOK, "null", "decoded response null"},
		{"invalid key", http.StatusOK, `{"data":{"valid":0}}`, "key is not valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			v := newVendor(t, tt.status, tt.body)
			store := storage.NewMemory()
			c := v.client(store)

			result := c.SyncAccessKey(ctx, "candidate", true, true)
			assert.False(t, result.Success)
			assert.Equal(t, tt.message, result.Message)

			key, _ := store.AccessKey(ctx)
			assert.Empty(t, key)
		})
	}
}

func TestSyncTransportError(t *testing.T) {
	c := cleantalk.New(storage.NewMemory(), cleantalk.WithEndpoints("", "http://127.0.0.1:1"))
	result := c.SyncAccessKey(context.Background(), "candidate", true, true)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}
