package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"ollama-tools/backend/internal/adapter"
	"ollama-tools/backend/internal/source"
	"ollama-tools/backend/internal/tools"
)

const requestIDHeader = "X-Request-ID"

// newRouter exposes the tool registry and the sources collected by providers over HTTP.
func newRouter(registry *tools.Registry, log *zap.Logger, providers ...source.Provider) *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// ?format=openai returns the definitions ready for a chat completion request
		api.GET("/tools", func(c *gin.Context) {
			if c.Query("format") == "openai" {
				c.JSON(http.StatusOK, gin.H{"tools": registry.OpenAITools()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"tools": registry.Definitions()})
		})

		// Run a tool; the body is the arguments object
		api.POST("/tools/:name", func(c *gin.Context) {
			name := c.Param("name")
			if !registry.Has(name) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tool not found: " + name})
				return
			}

			var args map[string]interface{}
			if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			result := registry.Execute(c.Request.Context(), adapter.ToolCall{
				ID:        c.GetString(requestIDHeader),
				Name:      name,
				Arguments: args,
			})
			c.JSON(http.StatusOK, result)
		})

		// Run a tool call emitted by an OpenAI-compatible model and answer
		// with the tool message to append to the conversation
		api.POST("/tool_calls", func(c *gin.Context) {
			var tc openai.ToolCall
			if err := c.ShouldBindJSON(&tc); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if tc.Type != "" && tc.Type != openai.ToolTypeFunction {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported tool call type: " + string(tc.Type)})
				return
			}

			call, err := adapter.FromOpenAIToolCall(tc)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !registry.Has(call.Name) {
				c.JSON(http.StatusNotFound, gin.H{"error": "tool not found: " + call.Name})
				return
			}
			if call.ID == "" {
				call.ID = c.GetString(requestIDHeader)
			}

			result := registry.Execute(c.Request.Context(), call)
			content, err := json.Marshal(result)
			if err != nil {
				log.Error("Failed to encode tool result", zap.String("tool", call.Name), zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode tool result"})
				return
			}

			message := openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    string(content),
			}
			c.JSON(http.StatusOK, gin.H{
				"result":  result,
				"message": message,
			})
		})

		api.GET("/sources", func(c *gin.Context) {
			all := source.Merge(providers...)
			if all == nil {
				all = []source.Source{}
			}
			c.JSON(http.StatusOK, gin.H{"sources": all})
		})
	}

	return router
}

// requestID tags each request with an id, reusing the caller's when present
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}
