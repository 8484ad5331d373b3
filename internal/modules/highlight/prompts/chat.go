package prompts

import (
	"strings"

	"github.com/yungbote/meet-highlight-backend/internal/domain/highlight"
)

// ChatWindow is how many trailing messages a condense request looks at.
const ChatWindow = 10

// RecentMessages returns at most ChatWindow trailing messages.
func RecentMessages(msgs []highlight.ChatMessage) []highlight.ChatMessage {
	if len(msgs) > ChatWindow {
		return msgs[len(msgs)-ChatWindow:]
	}
	return msgs
}

// ChatBullets renders one "- role: content" line per message.
func ChatBullets(msgs []highlight.ChatMessage) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		role := strings.TrimSpace(m.Role)
		if role == "" {
			role = "user"
		}
		content := strings.Join(strings.Fields(m.Content), " ")
		lines = append(lines, "- "+role+": "+content)
	}
	return strings.Join(lines, "\n")
}

// BuildCondense wraps the recent chat window in the condense instruction.
func BuildCondense(msgs []highlight.ChatMessage) string {
	return condenseInstruction + ChatBullets(RecentMessages(msgs))
}
