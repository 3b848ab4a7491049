// Package initdata validates signed init payloads from the chat
// platform's web-app bridge. The scheme is fixed by the issuing
// platform and must be reproduced exactly: the secret key is
// SHA256(botToken) and the signature is hex(HMAC-SHA256(secret,
// checkString)), where checkString is every non-hash key=value pair
// sorted lexicographically by key and joined with newlines.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/jianghu-rpg/jianghu-api/internal/errors"
)

// Result carries the verdict and the parsed payload fields
type Result struct {
	Valid    bool
	Expected string
	Provided string
	Data     map[string]string
}

// Validate parses a newline-delimited key=value payload and checks its
// hash field against the recomputed signature.
func Validate(payload, botToken string) (*Result, error) {
	if payload == "" {
		return nil, errors.InvalidArgument("init_data required")
	}

	data := make(map[string]string)
	providedHash := ""
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key, value := line[:idx], line[idx+1:]
		if key == "hash" {
			providedHash = value
		} else {
			data[key] = value
		}
	}
	if providedHash == "" {
		return nil, errors.InvalidArgument("no hash")
	}

	expected := Sign(data, botToken)
	return &Result{
		Valid:    hmac.Equal([]byte(expected), []byte(providedHash)),
		Expected: expected,
		Provided: providedHash,
		Data:     data,
	}, nil
}

// Sign computes the platform signature over the given fields
func Sign(data map[string]string, botToken string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + data[k]
	}
	checkString := strings.Join(pairs, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}
