package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// RecordIdentity derives the deterministic identity hash of a property from
// its survey number, coordinates and official registration date. Coordinates
// are fixed to six decimal places (~0.1m) so float formatting cannot produce
// two identities for the same property.
func RecordIdentity(surveyNumber string, lat, lon float64, registeredAt time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%.6f|%.6f|%d", surveyNumber, lat, lon, registeredAt.Unix())
	return hex.EncodeToString(h.Sum(nil))
}
