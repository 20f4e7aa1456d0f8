// ABOUTME: HTTP chat API over the knowledge base runtime, built on echo
// ABOUTME: Maps service failures to 502, unknown sessions to 404, and bad input to 400
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/harper/newsbot/internal/core"
	"github.com/harper/newsbot/internal/llm"
	"github.com/harper/newsbot/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is returned from POST /api/chat
type ChatResponse struct {
	SessionID string                `json:"session_id"`
	Reply     string                `json:"reply"`
	Sources   []models.ScoredRecord `json:"sources"`
}

// RetrieveRequest is the body of POST /api/retrieve
type RetrieveRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

// RetrieveResponse is returned from POST /api/retrieve
type RetrieveResponse struct {
	Query   string                `json:"query"`
	Results []models.ScoredRecord `json:"results"`
}

// SessionResponse is returned from GET /api/sessions/:id
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	CreatedAt time.Time        `json:"created_at"`
	Messages  []models.Message `json:"messages"`
}

// Server serves the chat API
type Server struct {
	rt   *core.Runtime
	echo *echo.Echo
}

// New builds a server with routes and middleware registered
func New(rt *core.Runtime) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Debug("request")
			return nil
		},
	}))

	s := &Server{rt: rt, echo: e}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealth)

	api := s.echo.Group("/api")
	api.POST("/chat", s.handleChat)
	api.POST("/retrieve", s.handleRetrieve)
	api.GET("/sessions/:id", s.handleSession)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("http server listening")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	log.Info("http server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"records":  s.rt.KB.Store.Len(),
		"sessions": s.rt.Sessions.Len(),
	})
}

func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	session, err := s.rt.Sessions.Resolve(req.SessionID)
	if err != nil {
		return toHTTPError(err)
	}

	answer, err := session.Ask(c.Request().Context(), s.rt.Assistant, req.Message)
	if err != nil {
		log.WithField("session_id", session.ID).WithError(err).Warn("chat turn failed")
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		SessionID: session.ID,
		Reply:     answer.Reply,
		Sources:   answer.Sources,
	})
}

func (s *Server) handleRetrieve(c echo.Context) error {
	var req RetrieveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.K < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "k must be positive")
	}
	k := req.K
	if k == 0 {
		k = s.rt.Assistant.TopK()
	}

	results, err := s.rt.Retriever.Retrieve(c.Request().Context(), req.Query, k)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, RetrieveResponse{Query: req.Query, Results: results})
}

func (s *Server) handleSession(c echo.Context) error {
	session, err := s.rt.Sessions.Get(c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, SessionResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
		Messages:  session.History(),
	})
}

func toHTTPError(err error) error {
	var embErr *llm.EmbeddingServiceError
	var chatErr *llm.ChatServiceError

	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrEmptyQuery):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.As(err, &embErr), errors.As(err, &chatErr):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
