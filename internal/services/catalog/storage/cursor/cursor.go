// Package cursor provides opaque pagination tokens for catalog listings.
//
// A token pins the keyset position of the previous page plus a hash of
// the filter it was minted under, so a token replayed with a different
// filter is rejected instead of silently returning unrelated rows.
package cursor

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Cursor marks where the previous page of a catalog listing ended.
type Cursor struct {
	// LastID is the puzzle ID the previous page ended on.
	LastID string `json:"last_id"`
	// FilterHash binds the token to the filter expression it was minted
	// under. Empty means the listing was unfiltered.
	FilterHash string `json:"filter_hash,omitempty"`
	// Desc records the listing direction the token was minted under. A
	// token cannot be replayed against the opposite ordering.
	Desc bool `json:"desc,omitempty"`
}

// NextPage creates a cursor for the page following lastID under filter.
func NextPage(lastID, filter string, desc bool) Cursor {
	return Cursor{
		LastID:     lastID,
		FilterHash: HashFilter(filter),
		Desc:       desc,
	}
}

// ValidateDirection checks that a cursor was minted under the given
// listing direction.
func ValidateDirection(c Cursor, desc bool) error {
	if c.Desc != desc {
		return fmt.Errorf("cursor direction does not match the requested ordering")
	}
	return nil
}

// Encode serializes a cursor to an opaque page token.
func Encode(c Cursor) (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// Decode deserializes a page token back to a cursor.
func Decode(token string) (Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: %w", err)
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, fmt.Errorf("unmarshal cursor: %w", err)
	}

	if c.LastID == "" {
		return Cursor{}, fmt.Errorf("cursor missing last ID")
	}

	return c, nil
}

// HashFilter computes a short stable hash of a filter expression.
// Empty filters hash to the empty string.
func HashFilter(filter string) string {
	if filter == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(filter))
	return hex.EncodeToString(sum[:8])
}

// ValidateFilterHash checks that a cursor was minted under the given filter.
func ValidateFilterHash(c Cursor, filter string) error {
	if c.FilterHash != HashFilter(filter) {
		return fmt.Errorf("cursor filter mismatch")
	}
	return nil
}
