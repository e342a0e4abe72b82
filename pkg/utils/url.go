package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// StripURL drops the query string and upgrades a scheme-less "//www" prefix to https.
func StripURL(rawURL string) string {
	if idx := strings.Index(rawURL, "?"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	if strings.HasPrefix(rawURL, "//www") {
		rawURL = "https:" + rawURL
	}
	return rawURL
}

// NormalizeImageURL completes an image link found on pageURL and strips it.
// Links that cannot be resolved are only stripped.
func NormalizeImageURL(pageURL, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err == nil && base.IsAbs() {
		if abs, err := ToAbsoluteURL(base, image); err == nil {
			image = abs
		}
	}
	return StripURL(image)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFileName turns free text into a file name made of [A-Za-z0-9._-].
func SafeFileName(s string) string {
	name := unsafeFileChars.ReplaceAllString(strings.TrimSpace(s), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "untitled"
	}
	return name
}
