// Package ai answers free-text questions about a single article through the
// Gemini API. The feature degrades to a disabled state when no API key is
// configured instead of failing the application.
package ai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nouvelles/nouvelles/app/feed"
)

// ErrUnavailable is returned when no API key is configured.
var ErrUnavailable = errors.New("ai service is not configured")

// Fetcher retrieves the raw bytes of a URL, typically through the relay.
type Fetcher interface {
	Get(ctx context.Context, targetURL string) ([]byte, error)
}

type Client struct {
	client    *resty.Client
	apiKey    string
	model     string
	baseURL   string
	extractor *ContentExtractor
	fetcher   Fetcher
}

// NewClient builds a question-answering client. fetcher may be nil; when set,
// the article page is fetched and its extracted text is added to the prompt
// for better-grounded answers.
func NewClient(apiKey, model string, fetcher Fetcher) *Client {
	return &Client{
		client:    resty.New().SetTimeout(60 * time.Second),
		apiKey:    apiKey,
		model:     model,
		baseURL:   "https://generativelanguage.googleapis.com/v1beta/models",
		extractor: NewContentExtractor(),
		fetcher:   fetcher,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"topK"`
	TopP        float64 `json:"topP"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

var fencePattern = regexp.MustCompile("```(markdown)?\\s?")

// Ask answers a question about one article.
func (c *Client) Ask(ctx context.Context, article feed.Article, question string) (string, error) {
	if !c.Enabled() {
		return "", ErrUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question is required")
	}

	prompt := c.buildPrompt(ctx, article, question)

	answer, err := c.generateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to get answer: %w", err)
	}

	return strings.TrimSpace(fencePattern.ReplaceAllString(answer, "")), nil
}

func (c *Client) buildPrompt(ctx context.Context, article feed.Article, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the following news article snippet:\n\n")
	fmt.Fprintf(&b, "Title: %q\nDescription: %q\n", article.Title, article.Description)

	if body := c.articleText(ctx, article); body != "" {
		fmt.Fprintf(&b, "\nArticle text:\n%s\n", body)
	}

	fmt.Fprintf(&b, "\nAnswer this question: %s\n\nAnswer:", question)
	return b.String()
}

// articleText best-effort fetches and extracts the article body. Any failure
// just means the prompt falls back to the snippet.
func (c *Client) articleText(ctx context.Context, article feed.Article) string {
	if c.fetcher == nil || article.Link == "" {
		return ""
	}
	data, err := c.fetcher.Get(ctx, article.Link)
	if err != nil {
		return ""
	}
	text, err := c.extractor.Run(data, article.Link)
	if err != nil {
		return ""
	}
	return text
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature: 0.5,
			TopK:        32,
			TopP:        0.9,
		},
	}

	var resp geminiResponse
	_, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&resp).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
