package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"telegram-ai-bot/utils"
)

// WikiClient recupera il riassunto di una voce tramite l'API MediaWiki
type WikiClient struct {
	http      *http.Client
	baseURL   string
	sentences int
}

// NewWikiClient crea il client verso Wikipedia in inglese
func NewWikiClient() *WikiClient {
	return NewWikiClientWithBaseURL("https://en.wikipedia.org")
}

// NewWikiClientWithBaseURL è usato nei test per puntare a un server fittizio
func NewWikiClientWithBaseURL(baseURL string) *WikiClient {
	return &WikiClient{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		sentences: 3,
	}
}

type wikiQueryResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int64  `json:"pageid"`
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing *struct{} `json:"missing,omitempty"`
		} `json:"pages"`
	} `json:"query"`
}

// Summary restituisce le prime frasi della voce che corrisponde al termine
func (w *WikiClient) Summary(ctx context.Context, topic string) (string, error) {
	apiURL := fmt.Sprintf(
		"%s/w/api.php?action=query&prop=extracts&explaintext=1&exintro=1&redirects=1&format=json&titles=%s",
		w.baseURL, url.QueryEscape(topic))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := w.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia http %d", resp.StatusCode)
	}

	var out wikiQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("errore nella decodifica della risposta di Wikipedia: %v", err)
	}

	for id, page := range out.Query.Pages {
		if id == "-1" || page.Missing != nil {
			continue
		}
		extract := strings.TrimSpace(page.Extract)
		if extract == "" {
			continue
		}
		return utils.FirstSentences(extract, w.sentences), nil
	}
	return "", ErrNotFound
}
