package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lograca/lograca/internal/llm"
	"github.com/lograca/lograca/internal/response"
)

// ChatHandler forwards chat conversations to the configured language
// model endpoint.
type ChatHandler struct {
	Client *llm.Client
	Logger zerolog.Logger
}

// NewChatHandler returns a ChatHandler using client.
func NewChatHandler(client *llm.Client, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{Client: client, Logger: logger}
}

type chatRequest struct {
	Messages []llm.Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Send handles POST /api/chat.
func (h *ChatHandler) Send(c echo.Context) error {
	if !h.Client.Enabled() {
		return response.Error(c, http.StatusServiceUnavailable, "chat is not configured", "")
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "invalid JSON body", err.Error())
	}
	if len(req.Messages) == 0 {
		return response.BadRequest(c, "messages must not be empty", "")
	}

	reply, err := h.Client.Complete(c.Request().Context(), req.Messages)
	if err != nil {
		h.Logger.Error().Err(err).Msg("chat completion")
		return response.BadGateway(c, "chat completion failed", err.Error())
	}
	return c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
