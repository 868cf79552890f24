package validation_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/maskrapp/spamguard/internal/audit"
	"github.com/maskrapp/spamguard/internal/check"
	"github.com/maskrapp/spamguard/internal/cleantalk"
	"github.com/maskrapp/spamguard/internal/message"
	"github.com/maskrapp/spamguard/internal/storage"
	"github.com/maskrapp/spamguard/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Record(ctx context.Context, entry audit.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func vendorServer(t *testing.T, body string, sent *map[string]any) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if sent != nil {
			json.Unmarshal(data, sent)
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func registration() check.RequestContext {
	return check.RequestContext{
		RemoteAddr: "203.0.113.9",
		FormData: map[string]any{
			"reg_email":             "bot@example.com",
			message.EventTokenField: "token",
		},
	}
}

func TestFullNickname(t *testing.T) {
	assert.Equal(t, "nick John Doe", validation.UserData{Nickname: "nick", FirstName: "John", LastName: "Doe"}.FullNickname())
	assert.Equal(t, "John", validation.UserData{FirstName: "John"}.FullNickname())
	assert.Empty(t, validation.UserData{}.FullNickname())
}

func TestRunChecksRejects(t *testing.T) {
	ctx := context.Background()
	var sent map[string]any
	server := vendorServer(t, `{"allow":0,"comment":"blocked: too fast"}`, &sent)

	store := storage.NewMemory()
	require.NoError(t, store.SetEnabled(ctx, true))
	require.NoError(t, store.SetAccessKey(ctx, "key"))
	sink := &recordingSink{}

	client := cleantalk.New(store, cleantalk.WithEndpoints(server.URL, server.URL))
	v := validation.NewValidator(store, sink)

	response := v.RunChecks(ctx, client, registration(), validation.UserData{
		Nickname:    "bot",
		FirstName:   "Spam",
		DisplayName: "Spam Bot",
	})
	assert.True(t, response.Reject)
	assert.Equal(t, "blocked: too fast", response.Reason)

	assert.Equal(t, "bot Spam", sent["sender_nickname"])
	assert.Equal(t, "Spam Bot", sent["sender_message"])
	assert.Equal(t, "key", sent["auth_key"])

	require.Len(t, sink.entries, 1)
	assert.Equal(t, "bot@example.com", sink.entries[0].Email)
	assert.Equal(t, 0, sink.entries[0].Allow)
}

func TestRunChecksAllowsOnSkip(t *testing.T) {
	ctx := context.Background()
	server := vendorServer(t, `{"unexpected":true}`, nil)

	store := storage.NewMemory()
	require.NoError(t, store.SetEnabled(ctx, true))
	require.NoError(t, store.SetAccessKey(ctx, "key"))

	client := cleantalk.New(store, cleantalk.WithEndpoints(server.URL, server.URL))
	response := validation.NewValidator(store, nil).RunChecks(ctx, client, registration(), validation.UserData{})
	assert.False(t, response.Reject)
	require.NotNil(t, response.Result)
	assert.Contains(t, response.Result.SkipReason, "unknown response format")
}

func TestRunChecksDisabled(t *testing.T) {
	ctx := context.Background()
	server := vendorServer(t, `{"allow":0,"comment":"spam"}`, nil)

	store := storage.NewMemory()
	require.NoError(t, store.SetAccessKey(ctx, "key"))
	sink := &recordingSink{}

	client := cleantalk.New(store, cleantalk.WithEndpoints(server.URL, server.URL))
	response := validation.NewValidator(store, sink).RunChecks(ctx, client, registration(), validation.UserData{})
	assert.False(t, response.Reject)
	assert.Nil(t, response.Result)
	assert.Empty(t, sink.entries)
}
