package review

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Server exposes the review API over HTTP.
type Server struct {
	store  *Store
	status http.HandlerFunc // optional pipeline status endpoint
	now    func() time.Time
}

// ServerConfig holds configuration for the server.
type ServerConfig struct {
	Store         *Store
	StatusHandler http.HandlerFunc // optional; mounted at GET /status
	Now           func() time.Time
}

// NewServer creates a new review server.
func NewServer(cfg ServerConfig) *Server {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		store:  cfg.Store,
		status: cfg.StatusHandler,
		now:    now,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.status != nil {
		r.GET("/status", gin.WrapF(s.status))
	}

	r.POST("/channels", s.createChannel)
	r.GET("/channels", s.listChannels)
	r.GET("/channels/:id/videos", s.listVideos)
	r.POST("/videos", s.importVideo)
	r.GET("/videos/:id/highlights", s.listHighlights)
	r.PUT("/highlights/:id", s.reviewHighlight)
	r.POST("/highlights/:id/publish", s.publishHighlight)

	return r
}

// Run starts the HTTP server on addr.
func (s *Server) Run(addr string) error {
	slog.Info("review server listening", "addr", addr)
	return s.Router().Run(addr)
}

// The review dashboard is served from a different origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type channelRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
	URL  string `json:"url"`
}

func (s *Server) createChannel(c *gin.Context) {
	var req channelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := s.store.GetChannel(c.Request.Context(), req.ID); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel already registered"})
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ch := Channel{
		ID:          req.ID,
		Name:        req.Name,
		URL:         req.URL,
		LastChecked: s.now(),
	}
	if err := s.store.CreateChannel(c.Request.Context(), ch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ch)
}

func (s *Server) listChannels(c *gin.Context) {
	channels, err := s.store.ListChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if channels == nil {
		channels = []Channel{}
	}
	c.JSON(http.StatusOK, channels)
}

func (s *Server) listVideos(c *gin.Context) {
	channelID := c.Param("id")

	if _, err := s.store.GetChannel(c.Request.Context(), channelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	videos, err := s.store.ListVideosByChannel(c.Request.Context(), channelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if videos == nil {
		videos = []Video{}
	}
	c.JSON(http.StatusOK, videos)
}

type highlightImport struct {
	TimeStart int    `json:"time_start"`
	TimeEnd   int    `json:"time_end"`
	Topic     string `json:"topic"`
	Quote     string `json:"quote"`
	Insight   string `json:"insight"`
	Takeaway  string `json:"takeaway"`
	Context   string `json:"context"`
}

type videoImportRequest struct {
	ID         string            `json:"id" binding:"required"`
	ChannelID  string            `json:"channel_id" binding:"required"`
	Title      string            `json:"title"`
	Duration   int               `json:"duration"`
	Highlights []highlightImport `json:"highlights"`
}

// importVideo ingests one analyzed video and its generated highlights, all
// starting in pending review.
func (s *Server) importVideo(c *gin.Context) {
	var req videoImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := s.store.GetChannel(ctx, req.ChannelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	video := Video{
		ID:          req.ID,
		ChannelID:   req.ChannelID,
		Title:       req.Title,
		Duration:    req.Duration,
		ProcessedAt: s.now(),
	}
	if err := s.store.CreateVideo(ctx, video); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, h := range req.Highlights {
		highlight := Highlight{
			ID:        uuid.NewString(),
			VideoID:   video.ID,
			TimeStart: h.TimeStart,
			TimeEnd:   h.TimeEnd,
			Topic:     h.Topic,
			Quote:     h.Quote,
			Insight:   h.Insight,
			Takeaway:  h.Takeaway,
			Context:   h.Context,
			Status:    HighlightPending,
		}
		if err := s.store.CreateHighlight(ctx, highlight); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := s.store.TouchChannel(ctx, req.ChannelID, s.now()); err != nil {
		slog.Warn("touch channel failed", "channel", req.ChannelID, "error", err)
	}

	c.JSON(http.StatusCreated, video)
}

func (s *Server) listHighlights(c *gin.Context) {
	videoID := c.Param("id")

	if _, err := s.store.GetVideo(c.Request.Context(), videoID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	highlights, err := s.store.ListHighlightsByVideo(c.Request.Context(), videoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if highlights == nil {
		highlights = []Highlight{}
	}
	c.JSON(http.StatusOK, highlights)
}

type reviewRequest struct {
	Status   HighlightStatus `json:"status" binding:"required"`
	Comments string          `json:"comments"`
}

func (s *Server) reviewHighlight(c *gin.Context) {
	id := c.Param("id")

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ValidStatus(req.Status) || req.Status == HighlightPublished {
		// Publishing goes through its own endpoint.
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending, approved, or rejected"})
		return
	}

	ctx := c.Request.Context()
	if err := s.store.ReviewHighlight(ctx, id, req.Status, req.Comments, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "highlight not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	highlight, err := s.store.GetHighlight(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, highlight)
}

// publishHighlight marks an approved highlight published. Only approved
// highlights may be published.
func (s *Server) publishHighlight(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	highlight, err := s.store.GetHighlight(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "highlight not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if highlight.Status != HighlightApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "only approved highlights can be published"})
		return
	}

	if err := s.store.ReviewHighlight(ctx, id, HighlightPublished, highlight.Comments, s.now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	highlight, err = s.store.GetHighlight(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, highlight)
}
