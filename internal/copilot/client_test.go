package copilot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func TestChatFirstEndpointWins(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Wie starte ich das Gespräch?", body["message"])
		assert.Contains(t, body, "history")

		json.NewEncoder(w).Encode(map[string]string{"response": "Fang mit einer offenen Frage an."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "Wie starte ich das Gespräch?"})
	require.NoError(t, err)
	assert.Equal(t, "Fang mit einer offenen Frage an.", reply)
	assert.Equal(t, []string{"/api/chat/completion"}, paths)
}

func TestChatFallsBackToNextEndpoint(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/chat/completion" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "mlm_sales", body["context"])

		json.NewEncoder(w).Encode(map[string]string{"reply": "Versuch es so."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "Hilfe"})
	require.NoError(t, err)
	assert.Equal(t, "Versuch es so.", reply)
	assert.Equal(t, []string{"/api/chat/completion", "/api/ai/chat"}, paths)
}

func TestChatAllEndpointsFail(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	_, err := c.Chat(context.Background(), ChatRequest{Message: "Hilfe"})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, errors.Is(err, domain.ErrExternalServiceUnavailable))
}

func TestExtractReplyFieldOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"response field", `{"response":"a"}`, "a"},
		{"reply field", `{"reply":"b"}`, "b"},
		{"answer field", `{"answer":"e"}`, "e"},
		{"response preferred over answer", `{"answer":"e","response":"a"}`, "a"},
		{"empty string skipped", `{"response":"","reply":"b"}`, "b"},
		{"non-string skipped", `{"response":42,"content":"d"}`, "d"},
		{"nothing usable", `{"status":"ok"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractReply([]byte(tt.body)))
		})
	}
}

func TestObjectionResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/knowledge/objection-response", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Zu teuer", body["objection"])
		assert.Equal(t, "Zinzino", body["company"])
		assert.NotContains(t, body, "situation")

		json.NewEncoder(w).Encode(ObjectionAdvice{
			Objection: "Zu teuer",
			Responses: []ObjectionReply{{Type: "reframe", Text: "Denk an den Wert.", Tone: "PROFESSIONAL"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	advice, err := c.ObjectionResponse(context.Background(), "Zu teuer", "Zinzino", "")
	require.NoError(t, err)
	assert.Equal(t, "Zu teuer", advice.Objection)
	require.Len(t, advice.Responses, 1)
	assert.Equal(t, "reframe", advice.Responses[0].Type)
}

func TestObjectionResponseEndpointUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	_, err := c.ObjectionResponse(context.Background(), "Zu teuer", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExternalServiceUnavailable))
}

func TestChatEmptyReplyTriggersFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/chat/completion" {
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Antwort"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, logger.NewNop())

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "Hilfe"})
	require.NoError(t, err)
	assert.Equal(t, "Antwort", reply)
}
