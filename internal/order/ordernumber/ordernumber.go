package ordernumber

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	prefix        = "ORD"
	randomCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randomLength  = 6
	userLength    = 4
)

// Generate builds a human-readable order number of the form
// ORD-<yyyymmddhhmmss>-<user4>-<random6>. Uniqueness is enforced by the
// database, callers retry with a fresh number on collision.
func Generate(now time.Time, userID uuid.UUID) (string, error) {
	user := strings.ToUpper(strings.ReplaceAll(userID.String(), "-", "")[:userLength])

	buf := make([]byte, randomLength)
	_, err := rand.Read(buf)
	if err != nil {
		return "", fmt.Errorf("failed generating random suffix with error=%w", err)
	}
	for i, b := range buf {
		buf[i] = randomCharset[int(b)%len(randomCharset)]
	}

	return fmt.Sprintf(
		"%s-%s-%s-%s",
		prefix,
		now.Format("20060102150405"),
		user,
		string(buf),
	), nil
}
