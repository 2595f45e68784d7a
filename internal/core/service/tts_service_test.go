package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/voicify/voicify-api/internal/core/domain"
)

var testLanguages = []string{"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh"}

type stubEngine struct {
	audio []byte
	err   error
	calls int
}

func (e *stubEngine) Synthesize(_ context.Context, _, _ string) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return e.audio, nil
}

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Write(id string, data []byte) error {
	s.files[id] = data
	return nil
}

func (s *memStore) Exists(id string) bool {
	_, ok := s.files[id]
	return ok
}

func (s *memStore) Open(id string) (io.ReadCloser, *domain.Artifact, error) {
	data, ok := s.files[id]
	if !ok {
		return nil, nil, domain.ErrArtifactNotFound
	}
	owner, createdAt, err := domain.ParseArtifactID(id)
	if err != nil {
		return nil, nil, domain.ErrArtifactNotFound
	}
	meta := &domain.Artifact{ID: id, OwnerID: owner, CreatedAt: createdAt, SizeBytes: int64(len(data))}
	return io.NopCloser(bytes.NewReader(data)), meta, nil
}

func (s *memStore) ListByOwner(ownerID string) ([]domain.Artifact, error) {
	all, _ := s.ListAll()
	owned := all[:0]
	for _, a := range all {
		if a.OwnerID == ownerID {
			owned = append(owned, a)
		}
	}
	return owned, nil
}

func (s *memStore) ListAll() ([]domain.Artifact, error) {
	artifacts := make([]domain.Artifact, 0, len(s.files))
	for id, data := range s.files {
		owner, createdAt, err := domain.ParseArtifactID(id)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, domain.Artifact{ID: id, OwnerID: owner, CreatedAt: createdAt, SizeBytes: int64(len(data))})
	}
	return artifacts, nil
}

func (s *memStore) Delete(id string) error {
	if _, ok := s.files[id]; !ok {
		return domain.ErrArtifactNotFound
	}
	delete(s.files, id)
	return nil
}

func newTestTTSService(engine *stubEngine, store *memStore) *TTSService {
	return NewTTSService(engine, store, testLanguages, 1000, zerolog.Nop())
}

func TestTTSService_Convert_Success(t *testing.T) {
	engine := &stubEngine{audio: []byte("mp3-bytes")}
	store := newMemStore()
	svc := newTestTTSService(engine, store)

	result, err := svc.Convert(context.Background(), "user1", "Hello", "en")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Language != "en" || result.Preview != "Hello" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if !strings.HasPrefix(result.AudioURL, "/api/tts/audio/") {
		t.Fatalf("unexpected audio url: %s", result.AudioURL)
	}
	if !store.Exists(result.Filename) {
		t.Fatalf("artifact not stored")
	}
	if !domain.OwnedBy(result.Filename, "user1") {
		t.Fatalf("artifact id does not encode ownership: %s", result.Filename)
	}
	if engine.calls != 1 {
		t.Fatalf("expected exactly one synthesis call, got %d", engine.calls)
	}
}

func TestTTSService_Convert_TextBounds(t *testing.T) {
	engine := &stubEngine{audio: []byte("a")}
	svc := newTestTTSService(engine, newMemStore())

	cases := []struct {
		length int
		ok     bool
	}{
		{0, false},
		{1, true},
		{1000, true},
		{1001, false},
	}
	for _, tc := range cases {
		_, err := svc.Convert(context.Background(), "user1", strings.Repeat("a", tc.length), "en")
		if tc.ok && err != nil {
			t.Fatalf("length %d: expected success, got %v", tc.length, err)
		}
		if !tc.ok {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("length %d: expected ValidationError, got %v", tc.length, err)
			}
		}
	}
}

func TestTTSService_Convert_WhitespaceOnly(t *testing.T) {
	engine := &stubEngine{audio: []byte("a")}
	store := newMemStore()
	svc := newTestTTSService(engine, store)

	for _, text := range []string{" ", "\t\n", strings.Repeat(" ", 300)} {
		_, err := svc.Convert(context.Background(), "user1", text, "en")
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("text %q: expected ValidationError, got %v", text, err)
		}
	}
	if engine.calls != 0 {
		t.Fatalf("engine must not run for whitespace-only text, got %d calls", engine.calls)
	}
	if len(store.files) != 0 {
		t.Fatalf("no artifact should be written, got %d", len(store.files))
	}
}

func TestTTSService_Convert_TrimsText(t *testing.T) {
	engine := &stubEngine{audio: []byte("a")}
	svc := newTestTTSService(engine, newMemStore())

	result, err := svc.Convert(context.Background(), "user1", "  Hello  ", "en")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Preview != "Hello" {
		t.Fatalf("expected trimmed preview, got %q", result.Preview)
	}

	// Padding must not buy extra length past the maximum.
	padded := "  " + strings.Repeat("a", 1000) + "  "
	if _, err := svc.Convert(context.Background(), "user1", padded, "en"); err != nil {
		t.Fatalf("padded max-length text should pass after trim, got %v", err)
	}
}

func TestTTSService_Convert_Language(t *testing.T) {
	engine := &stubEngine{audio: []byte("a")}
	svc := newTestTTSService(engine, newMemStore())

	// Omitted language falls back to the baseline.
	result, err := svc.Convert(context.Background(), "user1", "hola", "")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Language != "en" {
		t.Fatalf("expected default language en, got %s", result.Language)
	}

	_, err = svc.Convert(context.Background(), "user1", "hola", "xx")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for unsupported language, got %v", err)
	}
}

func TestTTSService_Convert_EngineFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("upstream 503")}
	store := newMemStore()
	svc := newTestTTSService(engine, store)

	_, err := svc.Convert(context.Background(), "user1", "Hello", "en")
	if err != domain.ErrSynthesisFailed {
		t.Fatalf("expected ErrSynthesisFailed, got %v", err)
	}
	if engine.calls != 1 {
		t.Fatalf("failed synthesis must not be retried, got %d calls", engine.calls)
	}
	if len(store.files) != 0 {
		t.Fatalf("no artifact should be written on failure")
	}
}

func TestTTSService_Convert_Preview(t *testing.T) {
	engine := &stubEngine{audio: []byte("a")}
	svc := newTestTTSService(engine, newMemStore())

	long := strings.Repeat("x", 80)
	result, err := svc.Convert(context.Background(), "user1", long, "en")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Preview != strings.Repeat("x", 50)+"..." {
		t.Fatalf("unexpected preview: %q", result.Preview)
	}
}

func TestTTSService_Fetch_Ownership(t *testing.T) {
	engine := &stubEngine{audio: []byte("mp3-bytes")}
	store := newMemStore()
	svc := newTestTTSService(engine, store)

	result, err := svc.Convert(context.Background(), "userA", "Hello", "en")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}

	// Owner reads the bytes back.
	rc, meta, err := svc.Fetch(context.Background(), "userA", result.Filename)
	if err != nil {
		t.Fatalf("owner fetch failed: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "mp3-bytes" {
		t.Fatalf("unexpected audio bytes: %q", data)
	}
	if meta.OwnerID != "userA" {
		t.Fatalf("unexpected owner: %s", meta.OwnerID)
	}

	// Any other caller is rejected, including one whose id is a
	// substring of the owner's.
	if _, _, err := svc.Fetch(context.Background(), "userB", result.Filename); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, _, err := svc.Fetch(context.Background(), "user", result.Filename); err != domain.ErrForbidden {
		t.Fatalf("substring caller: expected ErrForbidden, got %v", err)
	}
}

func TestTTSService_Fetch_NotFound(t *testing.T) {
	svc := newTestTTSService(&stubEngine{}, newMemStore())

	id := domain.NewArtifactID("user1", time.Now(), "deadbeef")
	if _, _, err := svc.Fetch(context.Background(), "user1", id); err != domain.ErrArtifactNotFound {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestTTSService_History_LimitAndOrder(t *testing.T) {
	store := newMemStore()
	svc := newTestTTSService(&stubEngine{}, store)

	base := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 15; i++ {
		id := domain.NewArtifactID("user1", base.Add(time.Duration(i)*time.Second), "0000000"+string(rune('a'+i)))
		_ = store.Write(id, []byte("x"))
	}
	// Another user's artifacts must never appear.
	_ = store.Write(domain.NewArtifactID("user2", base, "ffffffff"), []byte("x"))

	entries, err := svc.History(context.Background(), "user1")
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		prev, _ := time.Parse(time.RFC3339, entries[i-1].CreatedAt)
		cur, _ := time.Parse(time.RFC3339, entries[i].CreatedAt)
		if cur.After(prev) {
			t.Fatalf("history not sorted descending at index %d", i)
		}
	}
	for _, e := range entries {
		if !domain.OwnedBy(e.Filename, "user1") {
			t.Fatalf("foreign artifact in history: %s", e.Filename)
		}
	}
}
