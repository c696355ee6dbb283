package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func geminiReply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestGeminiQuizQuestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Fatalf("missing api key in query: %s", r.URL.RawQuery)
		}
		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.GenerationConfig == nil || payload.GenerationConfig.ResponseMimeType != "application/json" {
			t.Fatal("structured calls must request a JSON response")
		}
		geminiReply(t, w, `{"question":"Who led Israel out of Egypt?","options":["Moses","Aaron","Joshua"],"correctAnswerIndex":0}`)
	}))
	defer server.Close()

	client := &geminiClient{apiKey: "test-key", model: "gemini-2.5-flash", base: server.URL, client: server.Client()}
	quiz, err := client.QuizQuestion(context.Background())
	if err != nil {
		t.Fatalf("QuizQuestion: %v", err)
	}
	if quiz.Options[0] != "Moses" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestGeminiVerseOfTheDayPromptNamesChapter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		prompt := payload.Contents[0].Parts[0].Text
		if !strings.Contains(prompt, "Psalms chapter 23") {
			t.Fatalf("prompt missing book/chapter: %q", prompt)
		}
		geminiReply(t, w, `{"reference":"Psalm 23:1","text":"The LORD is my shepherd","reflection":"He provides."}`)
	}))
	defer server.Close()

	client := &geminiClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	votd, err := client.VerseOfTheDay(context.Background(), "Psalms", 23)
	if err != nil {
		t.Fatalf("VerseOfTheDay: %v", err)
	}
	if votd.Reference != "Psalm 23:1" {
		t.Fatalf("unexpected record: %+v", votd)
	}
}

func TestGeminiSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := &geminiClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	if _, err := client.Explain(context.Background(), "faith"); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}

func TestGeminiStreamChatDeliversDeltasInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":streamGenerateContent") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var payload geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.SystemInstruction == nil {
			t.Fatal("chat must carry the persona system instruction")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		chunks := []string{"In the ", "beginning ", "God created."}
		for _, chunk := range chunks {
			raw, _ := json.Marshal(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]string{{"text": chunk}}}},
				},
			})
			w.Write([]byte("data: " + string(raw) + "\n\n"))
		}
	}))
	defer server.Close()

	client := &geminiClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	var got []string
	var done bool
	err := client.StreamChat(context.Background(), "What does Genesis 1 teach?",
		ReadingContext{Book: "Genesis", Chapter: 1}, nil,
		func(delta ChatDelta) error {
			if delta.Done {
				done = true
				return nil
			}
			got = append(got, delta.Text)
			return nil
		})
	if err != nil {
		t.Fatalf("StreamChat: %v", err)
	}
	if !done {
		t.Fatal("stream did not signal completion")
	}
	if strings.Join(got, "") != "In the beginning God created." {
		t.Fatalf("concatenated deltas = %q", strings.Join(got, ""))
	}
}

func TestGeminiStreamChatHandlerAbandonsStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < 10; i++ {
			raw, _ := json.Marshal(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]string{{"text": "chunk"}}}},
				},
			})
			w.Write([]byte("data: " + string(raw) + "\n\n"))
		}
	}))
	defer server.Close()

	client := &geminiClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	abandon := errors.New("abandon")
	count := 0
	err := client.StreamChat(context.Background(), "question", ReadingContext{}, nil,
		func(delta ChatDelta) error {
			count++
			if count == 2 {
				return abandon
			}
			return nil
		})
	if !errors.Is(err, abandon) {
		t.Fatalf("err = %v, want handler error", err)
	}
	if count != 2 {
		t.Fatalf("handler called %d times after abandonment", count)
	}
}

func TestDisabledClientFailsFast(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	client := NewFromEnv(Config{})
	if _, err := client.QuizQuestion(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("QuizQuestion err = %v, want ErrMissingAPIKey", err)
	}
	if err := client.StreamChat(context.Background(), "hi", ReadingContext{}, nil, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("StreamChat err = %v, want ErrMissingAPIKey", err)
	}
	if _, err := client.Explain(context.Background(), "text"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("Explain err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewFromEnvPicksUpKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "abc123")
	client := NewFromEnv(Config{})
	if client.Name() == "disabled" {
		t.Fatal("client should be enabled when key present")
	}
	if !strings.Contains(client.Name(), "gemini-2.5-flash") {
		t.Fatalf("unexpected default model: %s", client.Name())
	}
}
