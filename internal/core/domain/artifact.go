package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrArtifactNotFound = errors.New("audio file not found")
var ErrForbidden = errors.New("access denied")
var ErrSynthesisFailed = errors.New("text-to-speech conversion failed")
var ErrMailDelivery = errors.New("email delivery failed")

const artifactPrefix = "tts"
const artifactExt = ".mp3"

// Artifact describes one synthesized audio file. CreatedAt is decoded
// from the identifier, not from filesystem metadata, so listings stay
// stable across machines and clock adjustments.
type Artifact struct {
	ID        string    `json:"filename"`
	OwnerID   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size"`
}

// NewArtifactID builds the canonical identifier for a synthesis result:
// tts_<ownerID>_<unix-millis>_<nonce>.mp3. Owner and creation time are
// recoverable with ParseArtifactID; the nonce disambiguates two requests
// from the same owner landing in the same millisecond.
func NewArtifactID(ownerID string, createdAt time.Time, nonce string) string {
	return fmt.Sprintf("%s_%s_%d_%s%s", artifactPrefix, ownerID, createdAt.UnixMilli(), nonce, artifactExt)
}

// ParseArtifactID decodes owner and creation time from an identifier.
// Anything that does not match the canonical shape is rejected. Path
// separators are refused anywhere in the id, including inside the owner
// and nonce segments, so a parsed id is always a bare filename.
func ParseArtifactID(id string) (ownerID string, createdAt time.Time, err error) {
	if strings.ContainsAny(id, `/\`) {
		return "", time.Time{}, ErrArtifactNotFound
	}
	name, ok := strings.CutSuffix(id, artifactExt)
	if !ok {
		return "", time.Time{}, ErrArtifactNotFound
	}
	parts := strings.Split(name, "_")
	if len(parts) != 4 || parts[0] != artifactPrefix || parts[1] == "" || parts[3] == "" {
		return "", time.Time{}, ErrArtifactNotFound
	}
	millis, perr := strconv.ParseInt(parts[2], 10, 64)
	if perr != nil {
		return "", time.Time{}, ErrArtifactNotFound
	}
	return parts[1], time.UnixMilli(millis).UTC(), nil
}

// OwnedBy reports whether id encodes ownerID as its owner. The check is
// a strict equality on the decoded owner field; a caller whose id is a
// substring of another user's id can never match.
func OwnedBy(id, ownerID string) bool {
	owner, _, err := ParseArtifactID(id)
	return err == nil && owner == ownerID
}
