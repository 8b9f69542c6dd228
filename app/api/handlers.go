package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nouvelles/nouvelles/app/ai"
	"github.com/nouvelles/nouvelles/app/config"
	"github.com/nouvelles/nouvelles/app/feed"
)

func NewHandler(hub HubInterface, resolver ResolverInterface, ask AskClientInterface) *Handler {
	return &Handler{
		hub:      hub,
		resolver: resolver,
		ask:      ask,
	}
}

// GetArticles returns the current snapshot, optionally filtered by category.
// Filtering never touches statuses or the global error: those describe the
// whole cycle.
func (h *Handler) GetArticles(c *gin.Context) {
	snapshot := h.hub.Snapshot()

	if raw := c.Query("category"); raw != "" {
		category := config.Category(raw)
		if !category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
			return
		}
		filtered := make([]feed.Article, 0, len(snapshot.Articles))
		for _, article := range snapshot.Articles {
			if article.Category == category {
				filtered = append(filtered, article)
			}
		}
		snapshot.Articles = filtered
	}

	c.JSON(http.StatusOK, snapshot)
}

// Refresh triggers a manual aggregation cycle and responds with the new
// snapshot. Manual refreshes are always honored, even while an automatic
// cycle is in flight.
func (h *Handler) Refresh(c *gin.Context) {
	h.hub.Refresh(true)
	c.JSON(http.StatusOK, h.hub.Snapshot())
}

// GetThumbnail resolves the display image for one article.
func (h *Handler) GetThumbnail(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	article, ok := h.hub.Article(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	c.JSON(http.StatusOK, thumbnailResponse{
		ID:           article.ID,
		ThumbnailURL: h.resolver.Resolve(c.Request.Context(), article),
	})
}

// AskAboutArticle forwards a question about one article to the AI client.
func (h *Handler) AskAboutArticle(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	article, ok := h.hub.Article(req.ID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	answer, err := h.ask.Ask(c.Request.Context(), article, req.Question)
	if err != nil {
		if errors.Is(err, ai.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "AI interaction requires an API key which is not currently configured",
			})
			return
		}
		slog.Error("AI request failed", "article", req.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get an answer"})
		return
	}

	c.JSON(http.StatusOK, askResponse{Answer: answer})
}

func (h *Handler) GetHealth(c *gin.Context) {
	snapshot := h.hub.Snapshot()

	health := gin.H{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"articles":   len(snapshot.Articles),
		"ai_enabled": h.ask.Enabled(),
	}
	if !snapshot.UpdatedAt.IsZero() {
		health["last_updated"] = snapshot.UpdatedAt.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, health)
}
