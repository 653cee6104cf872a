package schema

import "strings"

var fenceTags = []string{"json", "markdown", "md"}

// StripCodeFence removes a surrounding markdown code fence (```json,
// ```markdown or a bare ```) that models sometimes wrap output in.
func StripCodeFence(output string) string {
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "```") {
		return output
	}
	output = strings.TrimPrefix(output, "```")
	for _, tag := range fenceTags {
		if len(output) >= len(tag) && strings.EqualFold(output[:len(tag)], tag) {
			output = output[len(tag):]
			break
		}
	}
	output = strings.TrimSuffix(strings.TrimSpace(output), "```")
	return strings.TrimSpace(output)
}
