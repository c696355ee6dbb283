package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type geminiClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) QuizQuestion(ctx context.Context) (*QuizQuestion, error) {
	raw, err := c.generateJSON(ctx, "", buildQuizPrompt())
	if err != nil {
		return nil, err
	}
	return parseQuizQuestion(raw)
}

func (c *geminiClient) VerseOfTheDay(ctx context.Context, book string, chapter int) (*VerseOfTheDay, error) {
	raw, err := c.generateJSON(ctx, "", buildVerseOfTheDayPrompt(book, chapter))
	if err != nil {
		return nil, err
	}
	return parseVerseOfTheDay(raw)
}

func (c *geminiClient) ThematicStudy(ctx context.Context, theme string) (*ThematicStudy, error) {
	if strings.TrimSpace(theme) == "" {
		return nil, fmt.Errorf("theme cannot be empty")
	}
	raw, err := c.generateJSON(ctx, "", buildThematicStudyPrompt(theme))
	if err != nil {
		return nil, err
	}
	return parseThematicStudy(raw)
}

func (c *geminiClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	raw, err := c.generateJSON(ctx, "", buildSearchPrompt(query))
	if err != nil {
		return nil, err
	}
	return parseSearchResults(raw)
}

func (c *geminiClient) ChapterAnalysis(ctx context.Context, rc ReadingContext, chapterText string) ([]TermAnalysis, error) {
	text := clipText(chapterText, maxChapterChars)
	if text == "" {
		return nil, fmt.Errorf("chapter text empty; cannot analyze")
	}
	raw, err := c.generateJSON(ctx, "", buildChapterAnalysisPrompt(rc, text))
	if err != nil {
		return nil, err
	}
	return parseTermAnalyses(raw)
}

func (c *geminiClient) Explain(ctx context.Context, text string) (string, error) {
	text = clipText(text, maxSelectionChars)
	if text == "" {
		return "", fmt.Errorf("selection empty; nothing to explain")
	}
	raw, err := c.generateJSON(ctx, "", buildExplainPrompt(text))
	if err != nil {
		return "", err
	}
	return parseExplanation(raw)
}

func (c *geminiClient) CrossReferences(ctx context.Context, text string) ([]CrossReference, error) {
	text = clipText(text, maxSelectionChars)
	if text == "" {
		return nil, fmt.Errorf("selection empty; nothing to cross-reference")
	}
	raw, err := c.generateJSON(ctx, "", buildCrossReferencePrompt(text))
	if err != nil {
		return nil, err
	}
	return parseCrossReferences(raw)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r geminiResponse) text() string {
	var b strings.Builder
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// generateJSON performs a one-shot generation constrained to a JSON body.
func (c *geminiClient) generateJSON(ctx context.Context, system, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{
			Temperature:      0.4,
			ResponseMimeType: "application/json",
		},
	}
	if system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.base, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gemini API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	text := strings.TrimSpace(parsed.text())
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return text, nil
}

// StreamChat opens a server-sent-event stream and forwards text deltas to
// the handler in arrival order. Cancelling ctx or returning an error from
// the handler abandons the stream; partial output already delivered stays
// valid.
func (c *geminiClient) StreamChat(ctx context.Context, message string, rc ReadingContext, history []ChatMessage, handler ChatStreamHandler) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	payload := geminiRequest{
		Contents:          buildChatContents(message, history),
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: chatSystemInstruction(rc)}}},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s", c.base, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gemini API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" || data == "[DONE]" {
			continue
		}
		var chunk geminiResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		text := chunk.text()
		if text == "" {
			continue
		}
		if err := handler(ChatDelta{Text: text}); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("gemini stream interrupted: %w", err)
	}
	return handler(ChatDelta{Done: true})
}
