package utils

// SplitText cuts text into chunks of at most chunkSize runes, each starting
// overlap runes before the end of the previous one. Boundaries fall on rune
// positions, never inside a multi-byte character.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	total := len(runes)
	if chunkSize <= 0 || total <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize would never advance
	}

	var chunks []string
	for i := 0; i < total; i += step {
		end := i + chunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == total {
			break
		}
	}
	return chunks
}
