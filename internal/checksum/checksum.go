// Package checksum computes content digests used as HTTP entity tags.
package checksum

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Sum returns the xxhash64 digest of content as 16 hex digits.
func Sum(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// ETag returns Sum quoted as a strong entity tag.
func ETag(content string) string {
	return `"` + Sum(content) + `"`
}
