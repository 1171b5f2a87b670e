package stringutils

// Truncate shortens a string to at most n runes, adding "…" if it was
// truncated. Counting runes keeps multi-byte names from being cut
// mid-character in table output.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
