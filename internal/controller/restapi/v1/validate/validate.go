package validate

const hashLength = 64 // hex-encoded SHA-256

// IsFileHash reports whether s looks like a hex SHA-256 digest. Handlers
// reject malformed hashes before touching the database.
func IsFileHash(s string) bool {
	if len(s) != hashLength {
		return false
	}

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}

	return true
}
