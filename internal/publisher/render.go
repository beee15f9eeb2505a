package publisher

import (
	"fmt"
	"strings"

	"adboard-bot/internal/database/models"
)

// Render formats a post for channel publication: author line, body, and an
// optional metadata line for classified-ad fields.
func Render(post *models.Post) string {
	var b strings.Builder

	if post.Username != "" {
		fmt.Fprintf(&b, "👤 @%s\n", post.Username)
	}
	b.WriteString(post.Body)

	meta := strings.TrimSpace(strings.Join(nonEmpty(post.Category, post.Delivery, post.City), " "))
	if meta != "" {
		fmt.Fprintf(&b, "\n🏷 %s", meta)
	}

	return b.String()
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
