package stringz

// SnakeCase converts a Go identifier to snake case: FgColor -> fg_color,
// HTTPAddr -> http_addr.
func SnakeCase(s string) string {
	l := len(s)
	b := make([]byte, 0, l+4)
	for i := 0; i < l; i++ {
		c := s[i]
		if isUpper(c) {
			if i > 0 && (isLower(s[i-1]) || isDigit(s[i-1]) || (isUpper(s[i-1]) && i+1 < l && isLower(s[i+1]))) {
				b = append(b, '_')
			}
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}

// IsName reports whether s can be used as a property or tag name:
// ASCII letters, digits, '_' and '-', not starting with a digit or '-'.
func IsName(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUpper(c), isLower(c), c == '_':
		case isDigit(c), c == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool { return 'a' <= c && c <= 'z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }
