package api

import (
	"context"

	"github.com/nouvelles/nouvelles/app/ai"
	"github.com/nouvelles/nouvelles/app/feed"
	"github.com/nouvelles/nouvelles/app/thumb"
)

// HubInterface is the slice of the feed hub the handlers need.
type HubInterface interface {
	Snapshot() feed.Snapshot
	Article(id string) (feed.Article, bool)
	Refresh(manual bool) bool
}

var _ HubInterface = (*feed.Hub)(nil)

// ResolverInterface resolves an article's display image.
type ResolverInterface interface {
	Resolve(ctx context.Context, article feed.Article) string
}

var _ ResolverInterface = (*thumb.Resolver)(nil)

// AskClientInterface answers a question about one article.
type AskClientInterface interface {
	Enabled() bool
	Ask(ctx context.Context, article feed.Article, question string) (string, error)
}

var _ AskClientInterface = (*ai.Client)(nil)

type Handler struct {
	hub      HubInterface
	resolver ResolverInterface
	ask      AskClientInterface
}

type askRequest struct {
	ID       string `json:"id" binding:"required"`
	Question string `json:"question" binding:"required"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

type thumbnailResponse struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnail_url"`
}
