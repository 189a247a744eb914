package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskmindhq/taskmind/taskmind/chat"
	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

type messageResponse struct {
	ID        int64                  `json:"id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	ToolCalls []ports.ToolCallRecord `json:"tool_calls,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// chatMessage handles POST /api/chat
func (s *Server) chatMessage(c *gin.Context) {
	type request struct {
		Message        string `json:"message" binding:"required,min=1,max=2000"`
		ConversationID string `json:"conversation_id"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.orch.SendMessage(c.Request.Context(), currentUserID(c), req.ConversationID, req.Message)
	if err != nil {
		var chatErr *chat.ChatError
		if errors.As(err, &chatErr) {
			status := http.StatusBadRequest
			if chatErr.Code == ports.CodeProcessingError {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": gin.H{"code": chatErr.Code, "message": chatErr.Message}})
			return
		}
		s.logger.Error().Err(err).Msg("chat turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": result.ConversationID,
		"response":        result.Response,
		"tool_calls":      result.ToolCalls,
		"created_at":      result.CreatedAt.Format(time.RFC3339),
	})
}

// simpleChat handles POST /api/chat/simple
func (s *Server) simpleChat(c *gin.Context) {
	type request struct {
		Message string `json:"message" binding:"required,min=1,max=2000"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := s.resolver.Respond(c.Request.Context(), currentUserID(c), req.Message)
	response := gin.H{"response": reply.Text}
	if len(reply.ToolCalls) > 0 {
		response["tool_calls"] = reply.ToolCalls
	}
	c.JSON(http.StatusOK, response)
}

// listConversations handles GET /api/chat/conversations
func (s *Server) listConversations(c *gin.Context) {
	convs, err := s.orch.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list conversations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]gin.H, 0, len(convs))
	for _, conv := range convs {
		out = append(out, gin.H{
			"id":         conv.ID,
			"created_at": conv.CreatedAt.Format(time.RFC3339),
			"updated_at": conv.UpdatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}

// conversationMessages handles GET /api/chat/conversations/:id/messages
func (s *Server) conversationMessages(c *gin.Context) {
	msgs, err := s.orch.ConversationMessages(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ports.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		s.logger.Error().Err(err).Msg("failed to load conversation messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, messageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			ToolCalls: msg.ToolCalls,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
