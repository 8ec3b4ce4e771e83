package entity

const (
	// ShortcodeLength is the exact length of every shortcode.
	ShortcodeLength = 6
	// ShortcodeAlphabet holds the 63 symbols a shortcode may consist of.
	ShortcodeAlphabet = "_ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// IsValidShortcode reports whether s is exactly ShortcodeLength characters
// drawn from ShortcodeAlphabet.
func IsValidShortcode(s string) bool {
	if len(s) != ShortcodeLength {
		return false
	}

	for i := 0; i < len(s); i++ {
		if !isShortcodeChar(s[i]) {
			return false
		}
	}

	return true
}

func isShortcodeChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		return true
	default:
		return false
	}
}
