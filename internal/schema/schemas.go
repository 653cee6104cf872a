// Package schema holds the JSON schemas generated responses must satisfy,
// the validator that enforces them and helpers for cleaning model output.
package schema

import "strings"

// Schema is a JSON schema document in map form. Keys follow JSON Schema
// draft-04 so gojsonschema can compile them; ForGemini converts one into
// the OpenAPI subset accepted by Gemini's responseSchema.
type Schema map[string]any

func str(desc string) Schema {
	s := Schema{"type": "string"}
	if desc != "" {
		s["description"] = desc
	}
	return s
}

func strList(desc string) Schema {
	return Schema{"type": "array", "description": desc, "items": str("")}
}

var Roadmap = Schema{
	"type":     "array",
	"minItems": 1,
	"items": Schema{
		"type": "object",
		"properties": Schema{
			"title": str("The title of the sub-topic or concept."),
		},
		"required": []string{"title"},
	},
}

var DetailedConcept = Schema{
	"type": "object",
	"properties": Schema{
		"explanation": str("A concise, easy-to-understand conceptual explanation of the sub-topic. Use markdown for formatting."),
		"synopsis":    str("A concise synopsis of the sub-topic, structured for easy memorization, using bullet points and bold keywords."),
		"youtubeVideos": Schema{
			"type":        "array",
			"description": `An array of 3 objects, each with a "title" and a "videoId" for an educational YouTube video on this topic. Do not include the full URL.`,
			"items": Schema{
				"type": "object",
				"properties": Schema{
					"title":   str("The title of the YouTube video."),
					"videoId": str("The unique ID of the YouTube video (e.g., dQw4w9WgXcQ)."),
				},
				"required": []string{"title", "videoId"},
			},
		},
		"resourceSearchQueries": strList("An array of 3 specific search queries to find high-quality articles or documentation."),
	},
	"required": []string{"explanation", "synopsis", "youtubeVideos", "resourceSearchQueries"},
}

var Definition = Schema{
	"type": "object",
	"properties": Schema{
		"word":          str(""),
		"pronunciation": str("The phonetic pronunciation, e.g., /ˌmɪsəˈleɪniəs/"),
		"meaning":       str("A clear and concise definition of the word."),
		"examples":      strList("An array of exactly two sentences using the word in context."),
	},
	"required": []string{"word", "pronunciation", "meaning", "examples"},
}

var Quote = Schema{
	"type": "object",
	"properties": Schema{
		"quote":  str("The text of the motivational quote about learning or personal growth."),
		"author": str("The author of the quote. If unknown, state 'Anonymous'."),
	},
	"required": []string{"quote", "author"},
}

var Quiz = Schema{
	"type":     "array",
	"minItems": 1,
	"items": Schema{
		"type": "object",
		"properties": Schema{
			"questionText":  str("The text of the quiz question."),
			"options":       strList("An array of 4 possible answers (strings)."),
			"correctAnswer": str("The exact string of the correct answer, which must be present in the options array."),
		},
		"required": []string{"questionText", "options", "correctAnswer"},
	},
}

// geminiKeys are the schema keywords Gemini's responseSchema understands.
var geminiKeys = map[string]bool{
	"type": true, "description": true, "properties": true, "items": true,
	"required": true, "enum": true, "minItems": true, "maxItems": true, "nullable": true,
}

// ForGemini returns a copy of s with upper-case type names and unsupported
// keywords removed.
func ForGemini(s Schema) Schema {
	out := Schema{}
	for k, v := range s {
		if !geminiKeys[k] {
			continue
		}
		switch k {
		case "type":
			if t, ok := v.(string); ok {
				v = strings.ToUpper(t)
			}
		case "items":
			v = convert(v)
		case "properties":
			props := Schema{}
			for name, p := range asSchema(v) {
				props[name] = convert(p)
			}
			v = props
		}
		out[k] = v
	}
	return out
}

func convert(v any) any {
	if m := asSchema(v); m != nil {
		return ForGemini(m)
	}
	return v
}

func asSchema(v any) Schema {
	switch m := v.(type) {
	case Schema:
		return m
	case map[string]any:
		return Schema(m)
	}
	return nil
}
