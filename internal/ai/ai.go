package ai

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultGeminiBase  = "https://generativelanguage.googleapis.com/v1beta"
)

const defaultAIHTTPTimeout = 2 * time.Minute

// ErrMissingAPIKey marks every call made without a credential. The absence
// of a key is detected at construction time and no network I/O happens.
var ErrMissingAPIKey = errors.New("ai: API key not configured")

// ErrEmptyResult marks a structurally valid response whose normalized
// payload carries no usable content. Callers render it as "no results",
// not as a failure.
var ErrEmptyResult = errors.New("ai: model returned an empty result")

// Message senders for chat history.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// ChatMessage is one turn of the study chat.
type ChatMessage struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// ReadingContext tells the assistant what the user is currently reading.
type ReadingContext struct {
	Book    string
	Chapter int
}

// ChatDelta is one streamed fragment of a chat reply. Deltas arrive in
// generation order; their concatenation is the full reply.
type ChatDelta struct {
	Text string
	Done bool
}

// ChatStreamHandler receives streaming chat deltas. Returning an error
// abandons the stream; partial output seen so far remains valid.
type ChatStreamHandler func(delta ChatDelta) error

// QuizQuestion is a three-option multiple choice question.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// VerseOfTheDay is the daily generated verse record.
type VerseOfTheDay struct {
	Reference  string `json:"reference"`
	Text       string `json:"text"`
	Reflection string `json:"reflection"`
}

// VerseLink points at a chapter the reader can navigate to.
type VerseLink struct {
	Reference string `json:"reference"`
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
}

// ThematicStudy is a summary plus key verses for a theme.
type ThematicStudy struct {
	Summary string      `json:"summary"`
	Verses  []VerseLink `json:"verses"`
}

// SearchResult is one hit of an AI-backed free-text search.
type SearchResult struct {
	Reference string `json:"reference"`
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
	Text      string `json:"text"`
}

// CrossReference is a related verse for a selected text span.
type CrossReference struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
	Book      string `json:"book"`
	Chapter   int    `json:"chapter"`
	Verse     int    `json:"verse"`
}

// ArticleLink is optional further reading attached to a term analysis.
type ArticleLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// TermAnalysis is one noteworthy term of a chapter with its explanation
// and cross references.
type TermAnalysis struct {
	Term            string        `json:"term"`
	Explanation     string        `json:"explanation"`
	CrossReferences []VerseLink   `json:"crossReferences"`
	Articles        []ArticleLink `json:"articles,omitempty"`
}

// Client brokers every AI-assisted study feature. One streaming mode
// (chat) and a set of structured one-shot tasks with per-task schemas.
// The broker never retries; supersession and retry policy belong to the
// caller.
type Client interface {
	StreamChat(ctx context.Context, message string, rc ReadingContext, history []ChatMessage, handler ChatStreamHandler) error
	QuizQuestion(ctx context.Context) (*QuizQuestion, error)
	VerseOfTheDay(ctx context.Context, book string, chapter int) (*VerseOfTheDay, error)
	ThematicStudy(ctx context.Context, theme string) (*ThematicStudy, error)
	Search(ctx context.Context, query string) ([]SearchResult, error)
	ChapterAnalysis(ctx context.Context, rc ReadingContext, chapterText string) ([]TermAnalysis, error)
	Explain(ctx context.Context, text string) (string, error)
	CrossReferences(ctx context.Context, text string) ([]CrossReference, error)
	Name() string
}

// Config describes how to build a broker.
type Config struct {
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// NewFromEnv builds a broker from flags & environment. A missing key does
// not fail construction: the returned client is disabled and every call
// reports ErrMissingAPIKey before any network I/O.
func NewFromEnv(cfg Config) Client {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	if key == "" {
		key = os.Getenv("API_KEY")
	}
	if strings.TrimSpace(key) == "" {
		return disabledClient{}
	}

	model := cfg.Model
	if model == "" {
		if env := os.Getenv("GEMINI_MODEL"); env != "" {
			model = env
		} else {
			model = defaultGeminiModel
		}
	}
	base := strings.TrimRight(cfg.Endpoint, "/")
	if base == "" {
		base = defaultGeminiBase
	}
	return &geminiClient{
		apiKey: key,
		model:  model,
		base:   base,
		client: pickHTTPClient(cfg.HTTPClient),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Generations can run long; rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultAIHTTPTimeout}
}

// disabledClient is the broker handed out when no credential is present.
type disabledClient struct{}

func (disabledClient) StreamChat(context.Context, string, ReadingContext, []ChatMessage, ChatStreamHandler) error {
	return ErrMissingAPIKey
}

func (disabledClient) QuizQuestion(context.Context) (*QuizQuestion, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) VerseOfTheDay(context.Context, string, int) (*VerseOfTheDay, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) ThematicStudy(context.Context, string) (*ThematicStudy, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) Search(context.Context, string) ([]SearchResult, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) ChapterAnalysis(context.Context, ReadingContext, string) ([]TermAnalysis, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) Explain(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}

func (disabledClient) CrossReferences(context.Context, string) ([]CrossReference, error) {
	return nil, ErrMissingAPIKey
}

func (disabledClient) Name() string {
	return "disabled"
}
