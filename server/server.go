// Package server exposes the retrieval pipeline over HTTP.
package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/movievec/movievec/dataset"
	"github.com/movievec/movievec/rag"
)

// Searcher retrieves scored contexts for a query.
type Searcher interface {
	Retrieve(ctx context.Context, query string) ([]rag.Context, error)
}

// Asker answers a question through the RAG engine.
type Asker interface {
	Ask(ctx context.Context, question string) (*rag.Answer, error)
}

// Server wires the retriever and chat engine into a gin router.
type Server struct {
	searcher Searcher
	asker    Asker
}

// New creates a Server. asker may be nil, in which case /chat reports that
// chat is not configured.
func New(searcher Searcher, asker Asker) *Server {
	return &Server{searcher: searcher, asker: asker}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		v1.POST("/search", s.handleSearch)
		v1.POST("/chat", s.handleChat)
	}
	return router
}

// Run starts the HTTP server on the given port.
func (s *Server) Run(port string) error {
	log.Printf("Starting server on port %s", port)
	return s.Router().Run(":" + port)
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

type searchResult struct {
	Movie dataset.Movie `json:"movie"`
	Score float64       `json:"score"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contexts, err := s.searcher.Retrieve(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if req.K > 0 && req.K < len(contexts) {
		contexts = contexts[:req.K]
	}
	results := make([]searchResult, 0, len(contexts))
	for _, ctx := range contexts {
		movie, err := dataset.FromDocument(ctx.Document())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		results = append(results, searchResult{Movie: movie, Score: ctx.Score})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) handleChat(c *gin.Context) {
	if s.asker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "chat is not configured"})
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := s.asker.Ask(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, answer)
}
