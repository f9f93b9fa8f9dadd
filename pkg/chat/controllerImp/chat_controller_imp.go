package controllerImp

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"sheetchat/pkg/ai"
	"sheetchat/pkg/chat/service"
)

type ChatCtrl struct {
	s           service.ChatService
	factory     ai.Factory
	streamDelay time.Duration
}

func New(s service.ChatService, factory ai.Factory, streamDelay time.Duration) *ChatCtrl {
	if streamDelay <= 0 {
		streamDelay = 50 * time.Millisecond
	}
	return &ChatCtrl{s: s, factory: factory, streamDelay: streamDelay}
}

type askReq struct {
	DocumentID string        `json:"document_id"`
	Message    string        `json:"message"`
	Model      string        `json:"model"`
	Parameters *ai.Overrides `json:"parameters"`
}

func (h *ChatCtrl) Ask(c echo.Context) error {
	var req askReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	answer, err := h.s.Ask(c.Request().Context(), req.DocumentID, req.Message, req.Model, req.Parameters)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	if c.QueryParam("stream") != "" {
		return h.streamWords(c, answer)
	}
	return c.JSON(http.StatusOK, map[string]string{"response": answer})
}

// streamWords reveals the already-complete answer word by word on a fixed
// delay. Purely cosmetic: the full answer exists before the first word is
// written, and a client disconnect stops the reveal.
func (h *ChatCtrl) streamWords(c echo.Context, answer string) error {
	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	for _, word := range strings.Split(answer, " ") {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(h.streamDelay):
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", word); err != nil {
			return nil
		}
		resp.Flush()
	}
	fmt.Fprint(resp, "data: [DONE]\n\n")
	resp.Flush()
	return nil
}

// Models lists both provider families' chat models plus the fixed
// embedding catalogue. Provider listing failures degrade to whatever
// could be fetched; this endpoint never errors.
func (h *ChatCtrl) Models(c echo.Context) error {
	ctx := c.Request().Context()
	var models []ai.ModelInfo

	local, err := ai.ListLocalModels(ctx, h.factory.OllamaURL)
	if err != nil {
		log.Printf("[models] local listing: %v", err)
	}
	models = append(models, local...)

	if h.factory.OpenAIKey != "" {
		cloud, err := ai.ListOpenAIModels(ctx, h.factory.OpenAIEndpoint, h.factory.OpenAIKey)
		if err != nil {
			log.Printf("[models] openai listing: %v", err)
		}
		models = append(models, cloud...)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chat_models":      models,
		"embedding_models": ai.FallbackEmbeddingModels(),
	})
}
