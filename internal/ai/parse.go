package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	maxSearchResults  = 15
	maxAnalysisTerms  = 10
	maxThematicVerses = 7
	quizOptionCount   = 3
)

// jsonCandidates returns the raw payload plus the outermost {...} or [...]
// slice, so responses wrapped in prose or code fences still parse.
func jsonCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	candidates := []string{raw}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	if start := strings.Index(raw, "["); start >= 0 {
		if end := strings.LastIndex(raw, "]"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	return candidates
}

func parseQuizQuestion(raw string) (*QuizQuestion, error) {
	for _, candidate := range jsonCandidates(raw) {
		var quiz QuizQuestion
		if err := json.Unmarshal([]byte(candidate), &quiz); err != nil {
			continue
		}
		quiz.Question = strings.TrimSpace(quiz.Question)
		for i := range quiz.Options {
			quiz.Options[i] = strings.TrimSpace(quiz.Options[i])
		}
		if quiz.Question == "" {
			continue
		}
		if len(quiz.Options) != quizOptionCount {
			return nil, fmt.Errorf("quiz payload has %d options, want %d", len(quiz.Options), quizOptionCount)
		}
		if quiz.CorrectAnswerIndex < 0 || quiz.CorrectAnswerIndex >= quizOptionCount {
			return nil, fmt.Errorf("quiz payload has out-of-range answer index %d", quiz.CorrectAnswerIndex)
		}
		return &quiz, nil
	}
	return nil, fmt.Errorf("unable to parse quiz payload")
}

func parseVerseOfTheDay(raw string) (*VerseOfTheDay, error) {
	for _, candidate := range jsonCandidates(raw) {
		var votd VerseOfTheDay
		if err := json.Unmarshal([]byte(candidate), &votd); err != nil {
			continue
		}
		votd.Reference = strings.TrimSpace(votd.Reference)
		votd.Text = strings.TrimSpace(votd.Text)
		votd.Reflection = strings.TrimSpace(votd.Reflection)
		if votd.Reference == "" || votd.Text == "" {
			continue
		}
		return &votd, nil
	}
	return nil, fmt.Errorf("unable to parse verse of the day payload")
}

func parseThematicStudy(raw string) (*ThematicStudy, error) {
	for _, candidate := range jsonCandidates(raw) {
		var study ThematicStudy
		if err := json.Unmarshal([]byte(candidate), &study); err != nil {
			continue
		}
		study.Summary = strings.TrimSpace(study.Summary)
		study.Verses = sanitizeVerseLinks(study.Verses, maxThematicVerses)
		if study.Summary == "" {
			continue
		}
		if len(study.Verses) == 0 {
			return nil, ErrEmptyResult
		}
		return &study, nil
	}
	return nil, fmt.Errorf("unable to parse thematic study payload")
}

func parseSearchResults(raw string) ([]SearchResult, error) {
	type wrapper struct {
		Results []SearchResult `json:"results"`
	}
	for _, candidate := range jsonCandidates(raw) {
		var w wrapper
		if err := json.Unmarshal([]byte(candidate), &w); err == nil && w.Results != nil {
			results := sanitizeSearchResults(w.Results)
			if len(results) == 0 {
				return nil, ErrEmptyResult
			}
			return results, nil
		}
		var arr []SearchResult
		if err := json.Unmarshal([]byte(candidate), &arr); err == nil && len(arr) > 0 {
			results := sanitizeSearchResults(arr)
			if len(results) == 0 {
				return nil, ErrEmptyResult
			}
			return results, nil
		}
	}
	return nil, fmt.Errorf("unable to parse search payload")
}

func sanitizeSearchResults(in []SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(in))
	for _, r := range in {
		r.Reference = strings.TrimSpace(r.Reference)
		r.Book = strings.TrimSpace(r.Book)
		r.Text = strings.TrimSpace(r.Text)
		if r.Reference == "" || r.Book == "" || r.Chapter < 1 {
			continue
		}
		out = append(out, r)
		if len(out) == maxSearchResults {
			break
		}
	}
	return out
}

func parseTermAnalyses(raw string) ([]TermAnalysis, error) {
	type wrapper struct {
		References []TermAnalysis `json:"references"`
	}
	for _, candidate := range jsonCandidates(raw) {
		var w wrapper
		if err := json.Unmarshal([]byte(candidate), &w); err == nil && w.References != nil {
			terms := sanitizeTermAnalyses(w.References)
			if len(terms) == 0 {
				return nil, ErrEmptyResult
			}
			return terms, nil
		}
		var arr []TermAnalysis
		if err := json.Unmarshal([]byte(candidate), &arr); err == nil && len(arr) > 0 {
			terms := sanitizeTermAnalyses(arr)
			if len(terms) == 0 {
				return nil, ErrEmptyResult
			}
			return terms, nil
		}
	}
	return nil, fmt.Errorf("unable to parse chapter analysis payload")
}

func sanitizeTermAnalyses(in []TermAnalysis) []TermAnalysis {
	out := make([]TermAnalysis, 0, len(in))
	for _, term := range in {
		term.Term = strings.TrimSpace(term.Term)
		term.Explanation = strings.TrimSpace(term.Explanation)
		if term.Term == "" || term.Explanation == "" {
			continue
		}
		term.CrossReferences = sanitizeVerseLinks(term.CrossReferences, 0)
		articles := make([]ArticleLink, 0, len(term.Articles))
		for _, a := range term.Articles {
			a.Title = strings.TrimSpace(a.Title)
			a.URL = strings.TrimSpace(a.URL)
			if a.Title == "" || a.URL == "" {
				continue
			}
			articles = append(articles, a)
		}
		term.Articles = articles
		out = append(out, term)
		if len(out) == maxAnalysisTerms {
			break
		}
	}
	return out
}

func sanitizeVerseLinks(in []VerseLink, limit int) []VerseLink {
	out := make([]VerseLink, 0, len(in))
	for _, v := range in {
		v.Reference = strings.TrimSpace(v.Reference)
		v.Book = strings.TrimSpace(v.Book)
		if v.Reference == "" || v.Book == "" || v.Chapter < 1 {
			continue
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func parseExplanation(raw string) (string, error) {
	type wrapper struct {
		Explanation string `json:"explanation"`
	}
	for _, candidate := range jsonCandidates(raw) {
		var w wrapper
		if err := json.Unmarshal([]byte(candidate), &w); err != nil {
			continue
		}
		explanation := strings.TrimSpace(w.Explanation)
		if explanation == "" {
			return "", ErrEmptyResult
		}
		return explanation, nil
	}
	return "", fmt.Errorf("unable to parse explanation payload")
}

func parseCrossReferences(raw string) ([]CrossReference, error) {
	type wrapper struct {
		References []CrossReference `json:"references"`
	}
	for _, candidate := range jsonCandidates(raw) {
		var w wrapper
		if err := json.Unmarshal([]byte(candidate), &w); err == nil && w.References != nil {
			refs := sanitizeCrossReferences(w.References)
			if len(refs) == 0 {
				return nil, ErrEmptyResult
			}
			return refs, nil
		}
		var arr []CrossReference
		if err := json.Unmarshal([]byte(candidate), &arr); err == nil && len(arr) > 0 {
			refs := sanitizeCrossReferences(arr)
			if len(refs) == 0 {
				return nil, ErrEmptyResult
			}
			return refs, nil
		}
	}
	return nil, fmt.Errorf("unable to parse cross reference payload")
}

func sanitizeCrossReferences(in []CrossReference) []CrossReference {
	out := make([]CrossReference, 0, len(in))
	for _, r := range in {
		r.Reference = strings.TrimSpace(r.Reference)
		r.Book = strings.TrimSpace(r.Book)
		r.Text = strings.TrimSpace(r.Text)
		if r.Reference == "" || r.Book == "" || r.Chapter < 1 {
			continue
		}
		out = append(out, r)
	}
	return out
}
