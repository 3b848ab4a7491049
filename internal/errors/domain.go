package errors

import "time"

// Game-specific constructors. Cooldown rejections carry the remaining
// wait in metadata so handlers can render it without re-deriving it.

// CooldownActive creates a cooldown rejection with the remaining wait
func CooldownActive(message string, remaining time.Duration) *Error {
	return New(CodeResourceExhausted, message).WithMeta("remaining", remaining)
}

// CooldownRemaining extracts the remaining wait from a cooldown error,
// or zero if the error carries none.
func CooldownRemaining(err error) time.Duration {
	meta := GetMeta(err)
	if meta == nil {
		return 0
	}
	if d, ok := meta["remaining"].(time.Duration); ok {
		return d
	}
	return 0
}
