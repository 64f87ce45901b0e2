package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"mediline-service/internal/pkg/constvars"
)

// GenerateBusinessNo builds a human-readable business number such as
// ORD202601021504059876: prefix, second-resolution timestamp, four random
// digits. Uniqueness is enforced by the caller against storage.
func GenerateBusinessNo(prefix string, now time.Time) (string, error) {
	suffix, err := generateDigits(4)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%s", prefix, now.Format("20060102150405"), suffix), nil
}

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.New().String()
}

func generateDigits(length int) (string, error) {
	const digits = "0123456789"
	max := big.NewInt(int64(len(digits)))

	out := make([]byte, length)
	for i := range out {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = digits[num.Int64()]
	}

	return string(out), nil
}
