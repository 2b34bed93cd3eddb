package control

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/milk9111/sequencer/journal"
)

// ApiResponse is the envelope of every API reply.
type ApiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type SeekRequest struct {
	Time *float64 `json:"time" binding:"required"`
}

type StepRequest struct {
	Delta *float64 `json:"delta"`
}

type GroupRequest struct {
	Group string `json:"group" binding:"required"`
}

type RecordRequest struct {
	Recording bool `json:"recording"`
}

// History is the part of the journal the server reads.
type History interface {
	Recent(ctx context.Context, session string, limit int) ([]journal.Entry, error)
}

// Server exposes the transport over HTTP. History may be nil.
type Server struct {
	queue     *Queue
	history   History
	startTime time.Time
}

func NewServer(queue *Queue, history History) *Server {
	return &Server{
		queue:     queue,
		history:   history,
		startTime: time.Now(),
	}
}

// Router builds an engine with recovery, CORS and the API routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.SetupRoutes(r)
	return r
}

func (s *Server) SetupRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/timeline", s.handleTimeline)
		api.GET("/journal", s.handleJournal)

		api.POST("/play", s.handleSimple(OpPlay))
		api.POST("/pause", s.handleSimple(OpPause))
		api.POST("/stop", s.handleSimple(OpStop))
		api.POST("/reload", s.handleSimple(OpReload))
		api.POST("/seek", s.handleSeek)
		api.POST("/step", s.handleStep)
		api.POST("/group", s.handleGroup)
		api.POST("/record", s.handleRecord)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: gin.H{
			"uptime":  time.Since(s.startTime).Round(time.Second).String(),
			"pending": s.queue.Len(),
		},
	})
}

func (s *Server) handleTimeline(c *gin.Context) {
	snap := s.queue.Snapshot()
	if !snap.Loaded {
		c.JSON(http.StatusServiceUnavailable, ApiResponse{
			Status: "error",
			Error:  ErrNoTimeline.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   snap,
	})
}

func (s *Server) handleJournal(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, ApiResponse{
			Status: "error",
			Error:  "journal is disabled",
		})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, ApiResponse{
				Status: "error",
				Error:  "invalid limit: " + v,
			})
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(c.Request.Context(), c.Query("session"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ApiResponse{
			Status: "error",
			Error:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   entries,
	})
}

func (s *Server) handleSimple(op Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.accept(c, Command{Op: op})
	}
}

func (s *Server) handleSeek(c *gin.Context) {
	var req SeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid seek request: " + err.Error(),
		})
		return
	}
	s.accept(c, Command{Op: OpSeek, Value: *req.Time})
}

func (s *Server) handleStep(c *gin.Context) {
	var req StepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid step request: " + err.Error(),
		})
		return
	}
	delta := DefaultStep
	if req.Delta != nil {
		delta = *req.Delta
	}
	s.accept(c, Command{Op: OpStep, Value: delta})
}

func (s *Server) handleGroup(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid group request: " + err.Error(),
		})
		return
	}

	// reject names the loaded timeline does not know before they reach the loop
	if snap := s.queue.Snapshot(); snap.Loaded {
		if _, err := ResolveGroup(snap.Groups, req.Group); err != nil {
			c.JSON(http.StatusBadRequest, ApiResponse{
				Status: "error",
				Error:  err.Error(),
			})
			return
		}
	}
	s.accept(c, Command{Op: OpGroup, Group: req.Group})
}

func (s *Server) handleRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid record request: " + err.Error(),
		})
		return
	}
	s.accept(c, Command{Op: OpRecord, Flag: req.Recording})
}

func (s *Server) accept(c *gin.Context, cmd Command) {
	s.queue.Push(cmd)
	c.JSON(http.StatusAccepted, ApiResponse{
		Status:  "success",
		Message: cmd.String() + " queued",
	})
}
