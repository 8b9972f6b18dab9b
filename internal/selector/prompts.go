package selector

import (
	"fmt"
	"strings"

	"github.com/mcortez/pulsebot/internal/catalog"
	"github.com/mcortez/pulsebot/internal/source"
)

// selectionSystemPrompt frames the relevance and tool decision.
const selectionSystemPrompt = `You are a marketing analyst deciding whether a social media post is a good opportunity to demonstrate one of our content tools, and if so, which tool fits best.

Guidelines:
1. RELEVANCE: the post should genuinely benefit from one of the listed tools, not just mention related words
2. FIT: prefer the tool whose output would add the most value for the post's audience
3. RESTRAINT: a post that is personal, promotional, or already self-contained is not relevant
4. HONESTY: if no tool fits, say the post is not relevant rather than forcing a match

Score relevance from 0 to 100:
- 0-29: not worth responding to
- 30-49: weak opportunity, likely skip
- 50-74: decent opportunity
- 75-100: strong opportunity, clear tool fit

Respond with JSON only:
{
  "is_relevant": true or false,
  "selected_tool_id": "tool id from the list, or empty string if none fits",
  "relevance_score": 0-100,
  "reasoning": "one or two sentences explaining the decision"
}`

// buildSelectionPrompt enumerates the tool catalog and the post, plus
// tracked-account context when the author is on the list.
func buildSelectionPrompt(post source.Post, account *catalog.TrackedAccount, tools []catalog.ToolDefinition) string {
	var b strings.Builder

	b.WriteString("AVAILABLE TOOLS:\n")
	for _, t := range tools {
		fmt.Fprintf(&b, "- id: %s\n  name: %s\n  description: %s\n", t.ID, t.Name, t.Description)
		if t.AudienceHint != "" {
			fmt.Fprintf(&b, "  audience: %s\n", t.AudienceHint)
		}
		if len(t.MatchKeywords) > 0 {
			fmt.Fprintf(&b, "  keywords: %s\n", strings.Join(t.MatchKeywords, ", "))
		}
	}

	b.WriteString("\nPOST:\n")
	fmt.Fprintf(&b, "Author: @%s (%s)\n", post.Author.Handle, post.Author.DisplayName)
	fmt.Fprintf(&b, "Text: %s\n", post.Text)
	fmt.Fprintf(&b, "Engagement: %d likes, %d shares, %d replies\n",
		post.Engagement.LikeCount, post.Engagement.ShareCount, post.Engagement.ReplyCount)
	if len(post.ExtractedLinks) > 0 {
		fmt.Fprintf(&b, "Links: %s\n", strings.Join(post.ExtractedLinks, ", "))
	}
	if post.IsReply {
		b.WriteString("Note: this post is a reply in a conversation.\n")
	}

	if account != nil {
		b.WriteString("\nTRACKED ACCOUNT CONTEXT:\n")
		fmt.Fprintf(&b, "Handle: @%s\n", account.Handle)
		if account.Description != "" {
			fmt.Fprintf(&b, "About: %s\n", account.Description)
		}
		if len(account.TopicTags) > 0 {
			fmt.Fprintf(&b, "Topics: %s\n", strings.Join(account.TopicTags, ", "))
		}
		if len(account.InterestTags) > 0 {
			fmt.Fprintf(&b, "Interests: %s\n", strings.Join(account.InterestTags, ", "))
		}
		fmt.Fprintf(&b, "Priority: %d/100\n", account.PriorityScore)
	}

	b.WriteString("\nDecide whether to respond and pick the best tool.")
	return b.String()
}
