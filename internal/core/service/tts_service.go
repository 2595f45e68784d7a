package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/voicify/voicify-api/internal/api/metrics"
	"github.com/voicify/voicify-api/internal/core/domain"
	"github.com/voicify/voicify-api/internal/core/ports"
)

const (
	defaultLanguage  = "en"
	previewRunes     = 50
	historyLimit     = 10
	audioRoutePrefix = "/api/tts/audio/"
)

// TTSService validates conversion requests, drives the synthesis
// engine and keeps every artifact scoped to the caller that created it.
type TTSService struct {
	engine     ports.SynthesisEngine
	store      ports.ArtifactStore
	languages  map[string]bool
	maxTextLen int
	logger     zerolog.Logger
}

func NewTTSService(engine ports.SynthesisEngine, store ports.ArtifactStore, languages []string, maxTextLen int, logger zerolog.Logger) *TTSService {
	if maxTextLen <= 0 {
		maxTextLen = 1000
	}
	set := make(map[string]bool, len(languages))
	for _, l := range languages {
		set[l] = true
	}
	return &TTSService{
		engine:     engine,
		store:      store,
		languages:  set,
		maxTextLen: maxTextLen,
		logger:     logger,
	}
}

func (s *TTSService) Convert(ctx context.Context, userID, text, language string) (*ports.ConversionResult, error) {
	// Whitespace-only input must fail the minimum-length check, not
	// produce an empty artifact.
	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n < 1 || n > s.maxTextLen {
		return nil, domain.NewValidationError(fmt.Sprintf("text must be between 1 and %d characters", s.maxTextLen))
	}
	if language == "" {
		language = defaultLanguage
	}
	if !s.languages[language] {
		metrics.ConversionErrorsTotal.WithLabelValues("invalid_language").Inc()
		return nil, domain.NewValidationError("invalid language code")
	}

	// One attempt only; a failed synthesis is reported, never retried.
	start := time.Now()
	audio, err := s.engine.Synthesize(ctx, text, language)
	if err != nil {
		metrics.ConversionErrorsTotal.WithLabelValues("synthesis").Inc()
		s.logger.Error().Err(err).Str("user_id", userID).Str("language", language).Msg("synthesis failed")
		return nil, domain.ErrSynthesisFailed
	}
	metrics.SynthesisDuration.WithLabelValues(language).Observe(time.Since(start).Seconds())

	id := domain.NewArtifactID(userID, time.Now().UTC(), nonce())
	if err := s.store.Write(id, audio); err != nil {
		metrics.ConversionErrorsTotal.WithLabelValues("storage").Inc()
		s.logger.Error().Err(err).Str("artifact", id).Msg("failed to store audio")
		return nil, err
	}

	metrics.ConversionsTotal.WithLabelValues(language).Inc()
	s.logger.Info().Str("user_id", userID).Str("artifact", id).Int("bytes", len(audio)).Msg("text converted")

	return &ports.ConversionResult{
		Filename: id,
		AudioURL: audioRoutePrefix + id,
		Preview:  preview(text),
		Language: language,
	}, nil
}

func (s *TTSService) Fetch(ctx context.Context, userID, filename string) (io.ReadCloser, *domain.Artifact, error) {
	if !s.store.Exists(filename) {
		return nil, nil, domain.ErrArtifactNotFound
	}
	if !domain.OwnedBy(filename, userID) {
		return nil, nil, domain.ErrForbidden
	}

	// The cleanup sweep may remove the file between the existence
	// check and the open; Open then reports ErrArtifactNotFound.
	return s.store.Open(filename)
}

func (s *TTSService) History(ctx context.Context, userID string) ([]ports.HistoryEntry, error) {
	artifacts, err := s.store.ListByOwner(userID)
	if err != nil {
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].CreatedAt.After(artifacts[j].CreatedAt)
	})
	if len(artifacts) > historyLimit {
		artifacts = artifacts[:historyLimit]
	}

	entries := make([]ports.HistoryEntry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, ports.HistoryEntry{
			Filename:  a.ID,
			URL:       audioRoutePrefix + a.ID,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
			SizeBytes: a.SizeBytes,
		})
	}
	return entries, nil
}

// preview truncates text to the first 50 runes for the response body.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

// nonce returns a short random hex suffix so that two conversions from
// the same user in the same millisecond get distinct identifiers.
func nonce() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%08x", b)
}
