package storage

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// maxTitleLength bounds the sanitized title embedded in object names
const maxTitleLength = 50

// DownloadStem builds the collision-resistant base name "<itemId>-<timestampMillis>"
// used for every local file of one download
func DownloadStem(itemID string, now time.Time) string {
	return fmt.Sprintf("%s-%d", safeFileComponent(itemID), now.UnixMilli())
}

// ArtifactPrefix builds the name prefix shared by all published objects of one item
func ArtifactPrefix(title string, now time.Time) string {
	sanitized := SanitizeTitle(title)
	if sanitized == "" {
		return fmt.Sprintf("%d", now.UnixMilli())
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), sanitized)
}

// SanitizeTitle strips every non-alphanumeric character and truncates the result
func SanitizeTitle(title string) string {
	var b strings.Builder
	count := 0
	for _, r := range title {
		if count == maxTitleLength {
			break
		}
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			count++
		}
	}
	return b.String()
}

// DefaultContentType is used for files with an unknown extension
const DefaultContentType = "application/octet-stream"

// ContentTypeFor infers the object content type from a file extension
func ContentTypeFor(path string) string {
	contentTypeMap := map[string]string{
		".mp4":  "video/mp4",
		".webm": "video/webm",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".webp": "image/webp",
	}

	if ct, ok := contentTypeMap[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return DefaultContentType
}

// safeFileComponent replaces characters that are unsafe in file names
func safeFileComponent(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_') {
			return r
		}
		return '_'
	}, s)
}
