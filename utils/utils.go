package utils

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/gofrs/uuid"
)

func GenUuidFromStrings(uuids ...string) string {
	if len(uuids) == 0 {
		uuids = append(uuids, "00000000-0000-0000-0000-000000000000")
	}

	// Sort the inputs to ensure consistent ordering
	sorted := make([]string, len(uuids))
	copy(sorted, uuids)
	sort.Strings(sorted)

	return uuidHash([]byte(strings.Join(sorted, "")))
}

func uuidHash(b []byte) string {
	h := md5.New()

	h.Write(b)
	sum := h.Sum(nil)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum).String()
}

func Sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// ClampLimit applies the default for a zero limit and caps it at max.
func ClampLimit(limit, defaultLimit, maxLimit uint32) int {
	if limit == 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return int(limit)
}
