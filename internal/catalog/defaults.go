package catalog

// DefaultTools is the built-in tool catalog used when no catalog file is
// configured. Deployments normally override this via CATALOG_PATH.
var DefaultTools = []ToolDefinition{
	{
		ID:             "content-visualizer",
		Name:           "Content Visualizer",
		Description:    "Turns a dense post or linked article into a one-glance visual summary: key numbers, comparisons, and trends as chart-ready bullet points.",
		AudienceHint:   "Data-curious readers who skim rather than read threads",
		ComplexityTier: "standard",
		MatchKeywords:  []string{"data", "chart", "numbers", "report", "benchmark", "stats", "survey"},
		ExampleOutput:  "3-panel summary: adoption up 40% YoY; top 3 vendors by share; cost-per-seat trend line.",
	},
	{
		ID:             "research-lookup",
		Name:           "Research Lookup",
		Description:    "Surfaces primary sources, papers, or prior art relevant to a claim made in the post, with one-line summaries of each.",
		AudienceHint:   "Practitioners who want receipts before resharing",
		ComplexityTier: "advanced",
		MatchKeywords:  []string{"study", "paper", "research", "claim", "evidence", "source", "citation"},
		ExampleOutput:  "Two peer-reviewed papers and one industry report that test the post's central claim, each with a one-sentence finding.",
	},
	{
		ID:             "thread-summarizer",
		Name:           "Thread Summarizer",
		Description:    "Condenses a long post or linked thread into a three-bullet executive summary preserving the author's framing.",
		AudienceHint:   "Busy followers who missed the original discussion",
		ComplexityTier: "simple",
		MatchKeywords:  []string{"thread", "long", "tldr", "summary", "recap", "takeaways"},
		ExampleOutput:  "TL;DR in three bullets: the problem, the author's fix, and the one caveat they flag.",
	},
	{
		ID:             "counterpoint-builder",
		Name:           "Counterpoint Builder",
		Description:    "Drafts a respectful steelman-plus-counterpoint to a strong opinion, citing the strongest opposing consideration.",
		AudienceHint:   "Audiences that reward nuance over dunks",
		ComplexityTier: "standard",
		MatchKeywords:  []string{"opinion", "hot take", "debate", "disagree", "unpopular", "argument"},
		ExampleOutput:  "Steelman of the post's thesis in one sentence, then the single strongest counter-consideration with a concrete example.",
	},
}

// Default returns a catalog with the built-in tools and no tracked accounts.
func Default() *Catalog {
	tools := make([]ToolDefinition, len(DefaultTools))
	copy(tools, DefaultTools)
	return &Catalog{Tools: tools}
}
