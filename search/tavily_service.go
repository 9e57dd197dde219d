package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tavily.com"

// TavilyClient calls the Tavily search REST API.
type TavilyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return &TavilyClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type Request struct {
	Query         string `json:"query"`
	SearchDepth   string `json:"search_depth,omitempty"`
	Topic         string `json:"topic,omitempty"`
	MaxResults    int    `json:"max_results,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
}

type Response struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Results []Result `json:"results"`
}

type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (c *TavilyClient) Search(ctx context.Context, req Request) (*Response, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}
	if req.SearchDepth == "" {
		req.SearchDepth = "basic"
	}
	if req.Topic == "" {
		req.Topic = "general"
	}
	if req.MaxResults == 0 {
		req.MaxResults = 5
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily API error: status %d: %s", resp.StatusCode, string(respBody))
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &out, nil
}

// SearchWeb runs a basic search and formats the answer plus sources as
// markdown for consumption by the model.
func (c *TavilyClient) SearchWeb(ctx context.Context, query string) (string, error) {
	resp, err := c.Search(ctx, Request{
		Query:         query,
		IncludeAnswer: true,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if resp.Answer != "" {
		sb.WriteString(resp.Answer)
		sb.WriteString("\n\nSources:\n")
	}
	for _, r := range resp.Results {
		fmt.Fprintf(&sb, "- [%s](%s): %s\n", r.Title, r.URL, r.Content)
	}
	if sb.Len() == 0 {
		return "no results found", nil
	}
	return sb.String(), nil
}
