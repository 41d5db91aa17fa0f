package handlers

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// makeETag derives a strong ETag from the record identity and its last
// mutation time, so any successful PATCH invalidates cached copies.
func makeETag(id uuid.UUID, updatedAt time.Time) string {
	payload := id.String() + "|" + updatedAt.UTC().Format(time.RFC3339Nano)
	digest := sha1.Sum([]byte(payload))
	return `"` + hex.EncodeToString(digest[:]) + `"`
}

func parseETagHeader(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func etagMatches(header, etag string) bool {
	if strings.TrimSpace(header) == "*" {
		return true
	}
	for _, t := range parseETagHeader(header) {
		if t == etag {
			return true
		}
	}
	return false
}
