package scripture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/rcosta/selah/internal/bible"
)

const (
	defaultBaseURL     = "https://bible-api.com"
	defaultHTTPTimeout = 15 * time.Second
)

// ErrBadReference reports a request outside the canonical book/chapter range.
var ErrBadReference = errors.New("scripture: reference outside the canon")

// Verse is a single verse as returned by the scripture API.
type Verse struct {
	BookID   string `json:"book_id"`
	BookName string `json:"book_name"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Text     string `json:"text"`
}

// Chapter holds one fetched chapter, verses ordered ascending.
type Chapter struct {
	Reference     string  `json:"reference"`
	Verses        []Verse `json:"verses"`
	TranslationID string  `json:"translation_id"`
}

// Client fetches chapter text from the remote scripture API. It is
// stateless; callers own any caching and supersession.
type Client struct {
	baseURL string
	client  *http.Client
}

// Config describes how to build a scripture client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New returns a client against the configured API base, defaulting to the
// public bible-api.com endpoint.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: base, client: httpClient}
}

// FetchChapter retrieves every verse of (book, chapter) in the given
// translation. The book must be canonical and the chapter in range; an
// unknown translation id silently resolves to the catalog default.
func (c *Client) FetchChapter(ctx context.Context, book string, chapter int, translationID string) (*Chapter, error) {
	b, ok := bible.Find(book)
	if !ok {
		return nil, fmt.Errorf("%w: unknown book %q", ErrBadReference, book)
	}
	if chapter < 1 || chapter > b.Chapters {
		return nil, fmt.Errorf("%w: %s has no chapter %d", ErrBadReference, book, chapter)
	}
	translation, _ := bible.Resolve(translationID)

	endpoint := fmt.Sprintf("%s/%s+%d?translation=%s&verse_numbers=true",
		c.baseURL, url.PathEscape(stripDiacritics(book)), chapter, url.QueryEscape(translation.APIID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scripture API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scripture API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var payload Chapter
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode scripture response: %w", err)
	}
	if len(payload.Verses) == 0 {
		return nil, fmt.Errorf("scripture API returned no verses for %s %d", book, chapter)
	}
	if payload.TranslationID == "" {
		payload.TranslationID = translation.ID
	}
	for i := range payload.Verses {
		payload.Verses[i].Text = strings.TrimSpace(payload.Verses[i].Text)
	}
	return &payload, nil
}

var diacriticsStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics folds accented book names to plain ASCII letters before
// URL encoding. The API tolerates accents, but stripping them avoids
// encoding mismatches across translations.
func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsStripper, s)
	if err != nil {
		return s
	}
	return out
}
