package artifact

import "strings"

// ExtractCode returns the body of the first fenced code block tagged lang
// (case-insensitive). An empty lang matches any block. When no tagged block
// exists the first untagged block is used, and when there is no fence at all
// the trimmed text is returned unchanged. An unterminated block runs to the
// end of text, which covers truncated completions.
func ExtractCode(text, lang string) string {
	lines := strings.Split(text, "\n")

	var untagged string
	haveUntagged := false

	for i := 0; i < len(lines); i++ {
		fence, tag, ok := openFence(lines[i])
		if !ok {
			continue
		}
		end := len(lines)
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) == fence {
				end = j
				break
			}
		}
		body := strings.Join(lines[i+1:end], "\n")

		switch {
		case lang == "" || strings.EqualFold(tag, lang):
			return body
		case tag == "" && !haveUntagged:
			untagged, haveUntagged = body, true
		}
		i = end
	}

	if haveUntagged {
		return untagged
	}
	return strings.TrimSpace(text)
}

// openFence reports whether line opens a fenced block and returns the fence
// marker and info-string tag.
func openFence(line string) (fence, tag string, ok bool) {
	trimmed := strings.TrimSpace(line)
	for _, marker := range []string{"```", "~~~"} {
		if !strings.HasPrefix(trimmed, marker) {
			continue
		}
		n := len(marker)
		for n < len(trimmed) && trimmed[n] == marker[0] {
			n++
		}
		info := strings.TrimSpace(trimmed[n:])
		if f := strings.Fields(info); len(f) > 0 {
			tag = f[0]
		}
		return trimmed[:n], tag, true
	}
	return "", "", false
}
