package markdown

import "unicode/utf8"

// ChunkText takes a text string and divides it into chunks of a specified size with a given overlap.
// It returns a slice of strings, where each string represents a chunk of the original text.
// Cuts fall on UTF-8 character boundaries, so a chunk may be shorter than chunkSize;
// it is only longer when a single character does not fit in chunkSize bytes.
//
// Parameters:
//   - text: The input text to be chunked.
//   - chunkSize: The size of each chunk, in bytes.
//   - overlap: The amount of overlap between consecutive chunks (must be < chunkSize).
//
// Returns:
//   - []string: The chunks, or nil when chunkSize <= 0 or overlap >= chunkSize.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return nil
	}
	chunks := []string{}
	for start := 0; start < len(text); {
		end := min(start+chunkSize, len(text))
		for end > start && end < len(text) && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}

		next := end - overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// ChunkSection splits a section body into chunks of at most chunkSize bytes and
// prepends header to every chunk after the first, so each chunk keeps its context.
// The header counts against chunkSize; when it leaves no room it is not prepended.
// A body that fits is returned as a single chunk.
func ChunkSection(header, body string, chunkSize int) []string {
	if len(body) <= chunkSize || chunkSize <= 0 {
		return []string{body}
	}
	first := ChunkText(body, chunkSize, 0)[0]

	prefix, size := "", chunkSize
	if header != "" && chunkSize > len(header)+2 {
		prefix = header + "\n\n"
		size = chunkSize - len(prefix)
	}

	chunks := []string{first}
	for _, chunk := range ChunkText(body[len(first):], size, 0) {
		chunks = append(chunks, prefix+chunk)
	}
	return chunks
}
