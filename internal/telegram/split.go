package telegram

import "strings"

// maxMessageLen is Telegram's limit for a text message, in UTF-16 code units.
const maxMessageLen = 4096

// splitMessage cuts text into chunks of at most limit UTF-16 code units,
// preferring to break after a newline. Chunks that are blank after trimming are dropped.
func splitMessage(text string, limit int) []string {
	if utf16Len(text) <= limit {
		return []string{text}
	}
	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		cut, units, nl := 0, 0, -1
		for cut < len(runes) {
			w := utf16Width(runes[cut])
			if units+w > limit {
				break
			}
			units += w
			if runes[cut] == '\n' {
				nl = cut
			}
			cut++
		}
		if cut < len(runes) && nl > cut/2 {
			cut = nl + 1
		}
		if cut == 0 {
			cut = 1
		}
		part := strings.TrimRight(string(runes[:cut]), "\n")
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
		runes = runes[cut:]
	}
	return parts
}

// utf16Width is the number of UTF-16 code units r occupies.
func utf16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Width(r)
	}
	return n
}
