package app

import (
	"fmt"
	"strings"
)

// VideoURL links a YouTube video id.
func VideoURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Markdown lays the concept out as one document.
func (v ConceptView) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n_%s_\n\n", v.Title, v.Topic)
	sb.WriteString("## Explanation\n\n" + v.Detail.Explanation + "\n\n")
	sb.WriteString("## Synopsis\n\n" + v.Detail.Synopsis + "\n\n")
	if len(v.Detail.YoutubeVideos) > 0 {
		sb.WriteString("## Videos\n\n")
		for _, vid := range v.Detail.YoutubeVideos {
			fmt.Fprintf(&sb, "- %s: %s\n", vid.Title, VideoURL(vid.VideoID))
		}
		sb.WriteString("\n")
	}
	if len(v.Detail.ResourceSearchQueries) > 0 {
		sb.WriteString("## Further reading\n\n")
		for i, q := range v.Detail.ResourceSearchQueries {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
		}
		sb.WriteString("\n")
	}
	if v.Notes != "" {
		sb.WriteString("## My notes\n\n" + v.Notes + "\n")
	}
	return sb.String()
}
