// Package server exposes the task and chat operations over HTTP.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/taskmindhq/taskmind/taskmind/chat"
	ports "github.com/taskmindhq/taskmind/taskmind/chat/ports"
)

// Server wires the HTTP routes to the task store and the two chat surfaces.
type Server struct {
	engine    *gin.Engine
	tasks     ports.TaskStore
	orch      *chat.Orchestrator
	resolver  *chat.Resolver
	jwtSecret string
	logger    zerolog.Logger
}

func New(tasks ports.TaskStore, orch *chat.Orchestrator, resolver *chat.Resolver, jwtSecret string, logger zerolog.Logger) *Server {
	s := &Server{
		tasks:     tasks,
		orch:      orch,
		resolver:  resolver,
		jwtSecret: jwtSecret,
		logger:    logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api", s.auth)
	{
		api.POST("/tasks", s.createTask)
		api.GET("/tasks", s.listTasks)
		api.PATCH("/tasks/:id", s.updateTask)
		api.PATCH("/tasks/:id/complete", s.completeTask)
		api.DELETE("/tasks/:id", s.deleteTask)

		api.POST("/chat", s.chatMessage)
		api.POST("/chat/simple", s.simpleChat)
		api.GET("/chat/conversations", s.listConversations)
		api.GET("/chat/conversations/:id/messages", s.conversationMessages)
	}

	s.engine = engine
	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
