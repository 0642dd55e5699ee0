package license

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"strings"
	"time"
)

const (
	keyPrefix    = "VDP"
	globalSuffix = "GLB"

	// GlobalMac is the stored hardware identifier for unbound licenses.
	GlobalMac = "Globale"

	dateLayout = "2006-01-02"
)

// DeriveKey composes a license key: VDP-<8 hex uppercase>-<mac suffix>-<0..999>.
// Keys are not guaranteed unique and must not be treated as a security primitive.
func DeriveKey(macAddress string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate key entropy: %w", err)
	}

	return fmt.Sprintf("%s-%s-%s-%d",
		keyPrefix,
		strings.ToUpper(hex.EncodeToString(b)),
		macSuffix(macAddress),
		mrand.Intn(1000),
	), nil
}

// macSuffix keeps the first 6 characters of the identifier with colon
// separators stripped, or GLB when no identifier was supplied.
func macSuffix(macAddress string) string {
	if macAddress == "" {
		return globalSuffix
	}

	stripped := strings.ReplaceAll(macAddress, ":", "")
	if len(stripped) > 6 {
		stripped = stripped[:6]
	}
	return stripped
}

// ExpirationDate returns the issuance time plus the validity period in
// calendar days, formatted YYYY-MM-DD.
func ExpirationDate(now time.Time, durationDays int) string {
	return now.AddDate(0, 0, durationDays).Format(dateLayout)
}
