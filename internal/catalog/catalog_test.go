package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
accounts:
  - handle: alpha
    display_name: Alpha Co
    topic_tags: [devtools, ai]
    priority_score: 80
    description: Developer tools company
  - handle: "@Beta"
    priority_score: 40
tools:
  - id: content-visualizer
    name: Content Visualizer
    description: Turns dense posts into visual summaries.
    complexity_tier: standard
    match_keywords: [data, chart]
  - id: research-lookup
    name: Research Lookup
    description: Finds primary sources for claims.
    complexity_tier: advanced
`

func TestParse(t *testing.T) {
	cat, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Len(t, cat.Accounts, 2)
	assert.Len(t, cat.Tools, 2)
	assert.Equal(t, "Alpha Co", cat.Accounts[0].DisplayName)
	assert.Equal(t, 80, cat.Accounts[0].PriorityScore)
	assert.Equal(t, []string{"data", "chart"}, cat.Tools[0].MatchKeywords)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no tools",
			yaml: "accounts:\n  - handle: alpha\n",
		},
		{
			name: "tool missing id",
			yaml: "tools:\n  - name: X\n    description: Y\n",
		},
		{
			name: "tool missing description",
			yaml: "tools:\n  - id: x\n    name: X\n",
		},
		{
			name: "bad complexity tier",
			yaml: "tools:\n  - id: x\n    name: X\n    description: Y\n    complexity_tier: extreme\n",
		},
		{
			name: "duplicate tool id",
			yaml: "tools:\n  - id: x\n    name: X\n    description: Y\n  - id: x\n    name: X2\n    description: Y2\n",
		},
		{
			name: "not yaml",
			yaml: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestToolByID(t *testing.T) {
	cat, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	tool := cat.ToolByID("research-lookup")
	require.NotNil(t, tool)
	assert.Equal(t, "Research Lookup", tool.Name)

	assert.Nil(t, cat.ToolByID("nonexistent-id"))
	assert.Nil(t, cat.ToolByID(""))
}

func TestAccountByHandle(t *testing.T) {
	cat, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	tests := []struct {
		handle string
		want   string
	}{
		{"alpha", "alpha"},
		{"ALPHA", "alpha"},
		{"@Alpha", "alpha"},
		{"beta", "@Beta"},
		{"@BETA", "@Beta"},
	}

	for _, tt := range tests {
		acct := cat.AccountByHandle(tt.handle)
		require.NotNil(t, acct, "handle %s", tt.handle)
		assert.Equal(t, tt.want, acct.Handle)
	}

	assert.Nil(t, cat.AccountByHandle("gamma"))
}

func TestDefault(t *testing.T) {
	cat := Default()
	require.NotEmpty(t, cat.Tools)
	assert.Empty(t, cat.Accounts)
	assert.NotNil(t, cat.ToolByID("content-visualizer"))
}
