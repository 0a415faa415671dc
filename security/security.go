package security

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
)

// GenerateCSRFToken generates a secure random token for CSRF protection
func GenerateCSRFToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// SanitizeHeaders removes sensitive headers before logging a request
func SanitizeHeaders(headers http.Header) http.Header {
	sensitiveHeaders := []string{
		"Authorization",
		"Cookie",
		"Set-Cookie",
		"X-CSRF-Token",
	}

	for _, header := range sensitiveHeaders {
		headers.Del(header)
	}
	return headers
}
