// Package storage keeps synthesized audio artifacts on the local
// filesystem. Artifacts are ephemeral: the Cleaner removes anything
// older than the retention window.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voicify/voicify-api/internal/core/domain"
)

// Store is a flat directory of audio artifacts, one file per artifact,
// named by the artifact identifier. It is constructed once at startup
// and shared by reference; os-level reads and writes provide the
// per-call atomicity callers rely on.
type Store struct {
	root string
}

// New creates the root directory if needed and returns a Store over it.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &Store{root: root}, nil
}

// Write persists an artifact. Once Write returns, the artifact is
// visible to Exists, Open and the listing calls.
func (s *Store) Write(id string, data []byte) error {
	owner, _, err := domain.ParseArtifactID(id)
	if err != nil || owner == "" {
		return fmt.Errorf("malformed artifact id %q", id)
	}
	if err := os.WriteFile(filepath.Join(s.root, id), data, 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func (s *Store) Exists(id string) bool {
	if _, _, err := domain.ParseArtifactID(id); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, id))
	return err == nil
}

// Open returns a reader over the artifact bytes plus its metadata.
// Deleting the file while the reader is in flight is safe: the open
// descriptor keeps the already-started read intact (POSIX unlink).
func (s *Store) Open(id string) (io.ReadCloser, *domain.Artifact, error) {
	owner, createdAt, err := domain.ParseArtifactID(id)
	if err != nil {
		return nil, nil, domain.ErrArtifactNotFound
	}

	path := filepath.Join(s.root, id)
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, domain.ErrArtifactNotFound
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, domain.ErrArtifactNotFound
	}

	return f, &domain.Artifact{
		ID:        id,
		OwnerID:   owner,
		CreatedAt: createdAt,
		SizeBytes: info.Size(),
	}, nil
}

// ListByOwner returns the artifacts whose identifier encodes ownerID as
// its owner. Ownership is an equality check on the decoded owner field.
func (s *Store) ListByOwner(ownerID string) ([]domain.Artifact, error) {
	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	owned := all[:0]
	for _, a := range all {
		if a.OwnerID == ownerID {
			owned = append(owned, a)
		}
	}
	return owned, nil
}

// ListAll enumerates every artifact in the store. Files that do not
// parse as artifact identifiers are skipped.
func (s *Store) ListAll() ([]domain.Artifact, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	artifacts := make([]domain.Artifact, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		owner, createdAt, err := domain.ParseArtifactID(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info; skip.
			continue
		}
		artifacts = append(artifacts, domain.Artifact{
			ID:        e.Name(),
			OwnerID:   owner,
			CreatedAt: createdAt,
			SizeBytes: info.Size(),
		})
	}
	return artifacts, nil
}

func (s *Store) Delete(id string) error {
	if _, _, err := domain.ParseArtifactID(id); err != nil {
		return fmt.Errorf("malformed artifact id %q", id)
	}
	if err := os.Remove(filepath.Join(s.root, id)); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}
