package composer

import (
	"fmt"
	"strings"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/source"
	"github.com/mcortez/pulsebot/internal/toolrunner"
)

const compositionSystemPrompt = `You write replies to social media posts on behalf of a content tools team.

Rules:
1. Write a single reply, nothing else. No preamble, no quotes around it.
2. Address the original author naturally (you may mention their handle).
3. Lead with the value of the tool output for their post, not with the tool.
4. Never sound like an advertisement. No calls to action, no links, no hashtags unless the post uses them.
5. Stay under the stated character limit.`

func buildCompositionPrompt(post source.Post, tool catalog.ToolDefinition, output toolrunner.Output, maxLen int) string {
	var b strings.Builder

	b.WriteString("ORIGINAL POST:\n")
	fmt.Fprintf(&b, "Author: @%s (%s)\n", post.Author.Handle, post.Author.DisplayName)
	fmt.Fprintf(&b, "Text: %s\n", post.Text)

	b.WriteString("\nTOOL OUTPUT (")
	b.WriteString(tool.Name)
	b.WriteString("):\n")
	b.WriteString(output.Content)
	b.WriteString("\n")

	fmt.Fprintf(&b, "\nWrite the reply. Hard limit: %d characters.", maxLen)
	return b.String()
}
