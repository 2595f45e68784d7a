package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/voicify/voicify-api/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return store
}

func TestStore_WriteThenRead(t *testing.T) {
	store := newTestStore(t)
	id := domain.NewArtifactID("user1", time.Now().UTC(), "0a1b2c3d")

	if err := store.Write(id, []byte("mp3-bytes")); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	// Visible immediately after Write returns.
	if !store.Exists(id) {
		t.Fatalf("artifact should exist after write")
	}

	rc, meta, err := store.Open(id)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("unexpected bytes: %q", data)
	}
	if meta.OwnerID != "user1" || meta.SizeBytes != int64(len("mp3-bytes")) {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestStore_Write_RejectsMalformedID(t *testing.T) {
	store := newTestStore(t)
	if err := store.Write("not-an-artifact", []byte("x")); err == nil {
		t.Fatalf("expected error for malformed id")
	}
}

func TestStore_Open_NotFound(t *testing.T) {
	store := newTestStore(t)
	id := domain.NewArtifactID("user1", time.Now(), "0a1b2c3d")
	if _, _, err := store.Open(id); err != domain.ErrArtifactNotFound {
		t.Fatalf("expected ErrArtifactNotFound, got %v", err)
	}
}

func TestStore_Open_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	if _, _, err := store.Open("../secret.mp3"); err != domain.ErrArtifactNotFound {
		t.Fatalf("expected ErrArtifactNotFound for traversal name, got %v", err)
	}
}

func TestStore_Open_RejectsTraversalInNonce(t *testing.T) {
	// An id shaped like tts_<owner>_<millis>_<anything>.mp3 where the
	// nonce segment hides path separators. The owner segment is the
	// caller's own id, so an ownership check alone would not stop it;
	// Open must refuse the id before touching the filesystem.
	parent := t.TempDir()
	if err := os.WriteFile(filepath.Join(parent, "secret.mp3"), []byte("outside-bytes"), 0o644); err != nil {
		t.Fatalf("plant outside file: %v", err)
	}
	store, err := New(filepath.Join(parent, "audio"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	id := "tts_user1_123_/../../secret.mp3"
	if _, _, err := store.Open(id); err != domain.ErrArtifactNotFound {
		t.Fatalf("expected ErrArtifactNotFound for %q, got %v", id, err)
	}
	if store.Exists(id) {
		t.Fatalf("Exists must be false for %q", id)
	}
	if err := store.Write(id, []byte("x")); err == nil {
		t.Fatalf("Write must reject %q", id)
	}
	if err := store.Delete(id); err == nil {
		t.Fatalf("Delete must reject %q", id)
	}
}

func TestStore_ListByOwner_Equality(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	// "user1" is a prefix of "user12"; listings must not mix them up.
	idA := domain.NewArtifactID("user1", now, "aaaaaaaa")
	idB := domain.NewArtifactID("user12", now, "bbbbbbbb")
	_ = store.Write(idA, []byte("a"))
	_ = store.Write(idB, []byte("b"))

	owned, err := store.ListByOwner("user1")
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != idA {
		t.Fatalf("expected exactly [%s], got %+v", idA, owned)
	}
}

func TestStore_ListAll_SkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	id := domain.NewArtifactID("user1", time.Now().UTC(), "0a1b2c3d")
	_ = store.Write(id, []byte("a"))
	// A stray file that does not parse as an artifact id.
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write stray file: %v", err)
	}

	all, err := store.ListAll()
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(all) != 1 || all[0].ID != id {
		t.Fatalf("expected only the artifact, got %+v", all)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)
	id := domain.NewArtifactID("user1", time.Now().UTC(), "0a1b2c3d")
	_ = store.Write(id, []byte("a"))

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if store.Exists(id) {
		t.Fatalf("artifact should be gone")
	}
	if err := store.Delete(id); err == nil {
		t.Fatalf("second delete should fail")
	}
}

func TestStore_DeleteDuringRead(t *testing.T) {
	store := newTestStore(t)
	id := domain.NewArtifactID("user1", time.Now().UTC(), "0a1b2c3d")
	_ = store.Write(id, []byte("mp3-bytes"))

	rc, _, err := store.Open(id)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer rc.Close()

	// Deleting while a reader is open must not corrupt the read.
	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("in-flight read failed after delete: %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("corrupt read after delete: %q", data)
	}
}
