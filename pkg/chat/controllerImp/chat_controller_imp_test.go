package controllerImp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetchat/pkg/ai"
)

type fakeChat struct {
	answer  string
	lastDoc string
	lastMsg string
}

func (f *fakeChat) Ask(_ context.Context, docID, message, _ string, _ *ai.Overrides) (string, error) {
	f.lastDoc = docID
	f.lastMsg = message
	return f.answer, nil
}

func askContext(body, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestAsk_EmptyMessageIsRejected(t *testing.T) {
	h := New(&fakeChat{}, ai.Factory{}, time.Millisecond)
	c, rec := askContext(`{"document_id":"d1","message":"  "}`, "/chat")

	require.NoError(t, h.Ask(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAsk_ReturnsAnswerAsJSON(t *testing.T) {
	s := &fakeChat{answer: "three records match"}
	h := New(s, ai.Factory{}, time.Millisecond)
	c, rec := askContext(`{"document_id":"d1","message":"how many?"}`, "/chat")

	require.NoError(t, h.Ask(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"response":"three records match"}`, rec.Body.String())
	assert.Equal(t, "d1", s.lastDoc)
	assert.Equal(t, "how many?", s.lastMsg)
}

func TestAsk_StreamRevealsWordsThenDone(t *testing.T) {
	s := &fakeChat{answer: "one two three"}
	h := New(s, ai.Factory{}, time.Millisecond)
	c, rec := askContext(`{"document_id":"d1","message":"q"}`, "/chat?stream=1")

	require.NoError(t, h.Ask(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/event-stream")
	assert.Equal(t, "data: one\n\ndata: two\n\ndata: three\n\ndata: [DONE]\n\n", rec.Body.String())
}

func TestModels_ListsLocalAndEmbeddingCatalogue(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		fmt.Fprint(w, `{"models":[{"name":"llama3.2:latest"},{"name":"nomic-embed-text:latest"}]}`)
	}))
	defer ollama.Close()

	h := New(&fakeChat{}, ai.Factory{OllamaURL: ollama.URL}, time.Millisecond)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Models(echo.New().NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"llama3.2"`)
	assert.NotContains(t, body, `"nomic-embed-text:latest"`)
	assert.Contains(t, body, "text-embedding-3-small")
}

func TestModels_ListingFailureStillReturnsCatalogue(t *testing.T) {
	h := New(&fakeChat{}, ai.Factory{OllamaURL: "http://127.0.0.1:1"}, time.Millisecond)
	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Models(echo.New().NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "text-embedding-3-large")
}
