package api

import (
	v1 "pagereader/internal/api/v1"
)

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	baseHandler := NewHandler(s.config, s.reader, s.storage, s.version)

	// Browser pages and the endpoint their script polls
	s.router.GET("/", baseHandler.Index)
	s.router.GET("/spring", baseHandler.Spring)
	s.router.GET("/r", baseHandler.Read)

	apiGroup := s.router.Group("/api")
	apiGroup.GET("/ping", baseHandler.Ping)
	apiGroup.GET("/health", baseHandler.Health)

	v1.SetupRoutes(apiGroup.Group("/v1"), s.reader, s.storage)
}
