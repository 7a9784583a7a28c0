// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrInvalidProfileKey = errors.New("invalid profile key")

// MaxProfileKeyLen bounds the opaque identity the client sends.
const MaxProfileKeyLen = 128

// GenerateID returns a random UUIDv4 string for bales, archers and profiles
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return id.String(), nil
}

// ValidateProfileKey checks the shape of the caller's profile key. The key
// is opaque; it only has to be safe to embed in a store key.
func ValidateProfileKey(key string) error {
	if key == "" || len(key) > MaxProfileKeyLen {
		return ErrInvalidProfileKey
	}
	for _, c := range key {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c == '-', c == '_', c == '.', c == '@':
		default:
			return ErrInvalidProfileKey
		}
	}
	return nil
}

// GenerateViewSlug creates a short, deterministic slug for the read-only
// live view of a bale.
// Uses HMAC for determinism and base62 encoding for URL-friendliness
func GenerateViewSlug(profile, baleID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(profile))
	h.Write([]byte{0})
	h.Write([]byte(baleID))
	sum := h.Sum(nil)

	return base62Encode(sum[:8])
}

// base62Encode converts bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}
