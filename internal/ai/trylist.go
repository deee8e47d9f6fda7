package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/trailhead-app/trailhead/internal/model"
)

// TryItemFields is one AI-generated micro-experiment for a career.
type TryItemFields struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	XPValue     int    `json:"xp_value"`
}

const tryListSystemPrompt = "You are a career exploration expert who creates actionable micro-experiments to help people explore different career paths."

const tryListSchema = `{
  "type": "object",
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string", "description": "A clear, actionable title for the micro-experiment"},
          "description": {"type": "string", "description": "Detailed description of what to do and what they'll learn"},
          "duration": {"type": "string", "description": "Time commitment: '15-30 minutes', '1-2 hours', or 'Weekend project'"},
          "xp_value": {"type": "number", "description": "XP points to award (5 for quick, 10 for medium, 20 for weekend)"}
        },
        "required": ["title", "description", "duration", "xp_value"],
        "additionalProperties": false
      }
    }
  },
  "required": ["items"],
  "additionalProperties": false
}`

// GenerateTryListItems produces 3-5 micro-experiments for exploring the
// given career. Each returned tuple must carry a title and a positive XP
// value; anything else is a malformed upstream response.
func (c *Client) GenerateTryListItems(ctx context.Context, career *model.CareerMatch) ([]TryItemFields, error) {
	var out struct {
		Items []TryItemFields `json:"items"`
	}
	err := c.generate(ctx, tryListSystemPrompt, tryListPrompt(career), "try_list_items", json.RawMessage(tryListSchema), &out)
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("%w: try_list_items is empty", ErrUpstream)
	}
	for _, item := range out.Items {
		if item.Title == "" {
			return nil, fmt.Errorf("%w: try-list item missing title", ErrUpstream)
		}
		if item.XPValue <= 0 {
			return nil, fmt.Errorf("%w: try-list item has non-positive xp_value", ErrUpstream)
		}
	}
	return out.Items, nil
}

func tryListPrompt(career *model.CareerMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create 3-5 micro-experiments for someone interested in exploring the career %q.\n", career.CareerTitle)
	b.WriteString("Each should be actionable tasks they can complete to learn more about this field:\n\n")
	fmt.Fprintf(&b, "Career: %s\n", career.CareerTitle)
	fmt.Fprintf(&b, "Category: %s\n", career.Category)
	fmt.Fprintf(&b, "Why it matches: %s\n", career.Reason)
	fmt.Fprintf(&b, "Example tasks: %s\n\n", career.ExampleTasks)
	b.WriteString(`Generate try list items that vary in time commitment:
- Quick tasks (15-30 minutes): Research, reading, online exploration
- Medium tasks (1-2 hours): Networking, skill practice, projects
- Longer tasks (Weekend projects): More involved exploration

Make each item specific and actionable.`)
	return b.String()
}
