package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/rcosta/selah/internal/ai"
	"github.com/rcosta/selah/internal/annotations"
	"github.com/rcosta/selah/internal/reading"
	"github.com/rcosta/selah/internal/scripture"
	"github.com/rcosta/selah/internal/store"
	"github.com/rcosta/selah/internal/tui"
)

func main() {
	_ = godotenv.Load()

	dataDir := flag.String("data-dir", envOr("SELAH_DATA_DIR", defaultDataDir()), "directory for the persistent state file")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	translation := flag.String("translation", "", "translation to open with (acf, nvi, kjv)")
	geminiModel := flag.String("gemini-model", "", "override the Gemini model")
	geminiEndpoint := flag.String("gemini-endpoint", "", "custom Gemini API base URL")
	bibleAPI := flag.String("bible-api", os.Getenv("SELAH_BIBLE_API"), "custom scripture API base URL")
	flag.Parse()

	kv, err := store.Open(filepath.Join(*dataDir, "selah.json"))
	if err != nil {
		fmt.Println("failed to open state store:", err)
		os.Exit(1)
	}

	session, err := reading.NewSession(kv)
	if err != nil {
		fmt.Println("failed to restore reading session:", err)
		os.Exit(1)
	}

	if *translation != "" {
		if _, err := session.SetTranslation(*translation); err != nil {
			fmt.Println("failed to set translation:", err)
			os.Exit(1)
		}
	}

	broker := ai.NewFromEnv(ai.Config{
		Model:    *geminiModel,
		Endpoint: *geminiEndpoint,
	})

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Store:       kv,
			Scripture:   scripture.New(scripture.Config{BaseURL: *bibleAPI}),
			AI:          broker,
			Annotations: annotations.New(kv),
			Session:     session,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "selah")
	}
	return "."
}
