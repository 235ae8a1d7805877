package colour

import "fmt"

// ANSI foreground colours used by propctl output.

func Red(str string) string {
	return paint(31, str)
}

func Green(str string) string {
	return paint(32, str)
}

func Blue(str string) string {
	return paint(34, str)
}

func paint(code int, str string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", code, str)
}
