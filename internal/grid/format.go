package grid

// TruncateURL shortens long URLs for table cells. Rune-aware so multi-byte
// hosts are not cut mid-character.
func TruncateURL(url string, maxRunes int) string {
	if maxRunes <= 0 {
		return url
	}
	runes := []rune(url)
	if len(runes) <= maxRunes {
		return url
	}
	return string(runes[:maxRunes]) + "..."
}

// URLCellWidth is the default truncation width for URL cells.
const URLCellWidth = 60
