package utils

// SplitText cuts text into chunks of roughly chunkSize runes, with
// neighbouring chunks sharing an overlap so that a memory snippet cut
// mid-sentence still carries enough context to embed on its own.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	step := chunkSize - overlap
	if step <= 0 {
		// overlap >= chunkSize would never advance
		step = chunkSize
	}

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, string(runes[i:end]))

		if end == totalLen {
			break
		}
	}

	return chunks
}
