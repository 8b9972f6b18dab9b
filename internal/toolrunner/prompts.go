package toolrunner

import (
	"fmt"
	"strings"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/source"
)

const invocationSystemPrompt = `You are a content tool executing against a social media post. Produce the tool's output for this specific post: concrete, grounded in the post's actual content, and directly usable.

Do not write the reply to the post itself; another step does that. Produce only the tool's raw output.

Respond with JSON only:
{
  "content": "the tool's output",
  "reasoning": "one or two sentences on how the output serves the post",
  "metadata": { "any": "tool-specific extras, may be empty" }
}`

func buildInvocationPrompt(post source.Post, tool catalog.ToolDefinition) string {
	var b strings.Builder

	b.WriteString("TOOL:\n")
	fmt.Fprintf(&b, "Name: %s\n", tool.Name)
	fmt.Fprintf(&b, "Description: %s\n", tool.Description)
	if tool.AudienceHint != "" {
		fmt.Fprintf(&b, "Audience: %s\n", tool.AudienceHint)
	}
	if tool.ExampleOutput != "" {
		fmt.Fprintf(&b, "Example output: %s\n", tool.ExampleOutput)
	}

	b.WriteString("\nPOST:\n")
	fmt.Fprintf(&b, "Author: @%s\n", post.Author.Handle)
	fmt.Fprintf(&b, "Text: %s\n", post.Text)
	if len(post.ExtractedLinks) > 0 {
		fmt.Fprintf(&b, "Links: %s\n", strings.Join(post.ExtractedLinks, ", "))
	}
	if len(post.Media) > 0 {
		fmt.Fprintf(&b, "Media: %s\n", strings.Join(post.Media, ", "))
	}

	b.WriteString("\nApply the tool to this post.")
	return b.String()
}
