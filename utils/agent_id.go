package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mdrafiul/localmart_backend/models"
)

const agentCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateAgentID produces the human-readable correlation token embedded
// in an entity and later echoed on its payment request.
// Format: {PREFIX}_{unixMillis}_{6 random base-36 chars}, e.g.
// KAB_1714988112345_X4T9QZ. The prefix is the first three alphanumeric
// characters of the entity name, or the kind's fixed fallback when the
// name is too short. Uniqueness is not checked against the database.
func GenerateAgentID(name string, kind models.EntityKind) (string, error) {
	prefix := agentPrefix(name, kind)

	random, err := randomBase36(6)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), random), nil
}

func agentPrefix(name string, kind models.EntityKind) string {
	var letters []rune
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters = append(letters, unicode.ToUpper(r))
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) < 3 {
		return kind.Info().AgentPrefix
	}
	return string(letters)
}

func randomBase36(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, b := range bytes {
		sb.WriteByte(agentCharset[int(b)%len(agentCharset)])
	}
	return sb.String(), nil
}
