// Package catalog holds the static reference data the pipeline consults:
// the list of tracked accounts and the marketing tool definitions.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TrackedAccount is a source-platform account whose posts the pipeline monitors.
type TrackedAccount struct {
	Handle        string   `yaml:"handle" validate:"required"`
	DisplayName   string   `yaml:"display_name"`
	TopicTags     []string `yaml:"topic_tags"`
	InterestTags  []string `yaml:"interest_tags"`
	PriorityScore int      `yaml:"priority_score" validate:"gte=0,lte=100"`
	Description   string   `yaml:"description"`
}

// ToolDefinition is a content-generation capability that can be applied to a post.
type ToolDefinition struct {
	ID             string   `yaml:"id" validate:"required"`
	Name           string   `yaml:"name" validate:"required"`
	Description    string   `yaml:"description" validate:"required"`
	AudienceHint   string   `yaml:"audience_hint"`
	ComplexityTier string   `yaml:"complexity_tier" validate:"omitempty,oneof=simple standard advanced"`
	MatchKeywords  []string `yaml:"match_keywords"`
	ExampleOutput  string   `yaml:"example_output"`
}

// Catalog bundles the tracked accounts and tool definitions for one deployment.
type Catalog struct {
	Accounts []TrackedAccount `yaml:"accounts" validate:"dive"`
	Tools    []ToolDefinition `yaml:"tools" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	// Tool IDs must be unique; selection verdicts resolve against them.
	seen := make(map[string]bool, len(c.Tools))
	for _, t := range c.Tools {
		if seen[t.ID] {
			return nil, fmt.Errorf("validate catalog: duplicate tool id %q", t.ID)
		}
		seen[t.ID] = true
	}

	return &c, nil
}

// ToolByID resolves a tool id against the catalog. Returns nil if not found.
func (c *Catalog) ToolByID(id string) *ToolDefinition {
	for i := range c.Tools {
		if c.Tools[i].ID == id {
			return &c.Tools[i]
		}
	}
	return nil
}

// AccountByHandle finds a tracked account by handle, case-insensitively.
// A leading "@" on either side is ignored. Returns nil if not tracked.
func (c *Catalog) AccountByHandle(handle string) *TrackedAccount {
	want := normalizeHandle(handle)
	for i := range c.Accounts {
		if normalizeHandle(c.Accounts[i].Handle) == want {
			return &c.Accounts[i]
		}
	}
	return nil
}

func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}
