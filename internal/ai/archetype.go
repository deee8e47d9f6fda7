package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/trailhead-app/trailhead/internal/model"
)

// ArchetypeFields is the structured output of archetype generation,
// persisted verbatim.
type ArchetypeFields struct {
	ArchetypeName           string   `json:"archetype_name"`
	Description             string   `json:"description"`
	WorkStyle               string   `json:"work_style"`
	IdealEnvironments       string   `json:"ideal_environments"`
	Motivators              string   `json:"motivators"`
	Stressors               string   `json:"stressors"`
	StrengthsInterpretation string   `json:"strengths_interpretation"`
	Tags                    []string `json:"tags"`
}

const archetypeSystemPrompt = "You are a professional career counselor and personality expert specializing in creating personalized archetype profiles. You combine insights from multiple assessment frameworks to create unique, actionable profiles."

const archetypeSchema = `{
  "type": "object",
  "properties": {
    "archetype_name": {
      "type": "string",
      "description": "A unique, inspiring archetype name (e.g., 'The Strategic Innovator', 'The Empathetic Builder')"
    },
    "description": {
      "type": "string",
      "description": "A compelling 2-3 sentence description of this archetype"
    },
    "work_style": {
      "type": "string",
      "description": "How this person prefers to work and approach tasks"
    },
    "ideal_environments": {
      "type": "string",
      "description": "The types of work environments where this person thrives"
    },
    "motivators": {
      "type": "string",
      "description": "What drives and energizes this person"
    },
    "stressors": {
      "type": "string",
      "description": "What situations or conditions cause stress for this person"
    },
    "strengths_interpretation": {
      "type": "string",
      "description": "How their specific strengths work together and manifest in real-world scenarios"
    },
    "tags": {
      "type": "array",
      "items": {"type": "string"},
      "description": "3-5 key words that capture this archetype"
    }
  },
  "required": ["archetype_name", "description", "work_style", "ideal_environments", "motivators", "stressors", "strengths_interpretation", "tags"],
  "additionalProperties": false
}`

// GenerateArchetype synthesizes a personality archetype from the profile's
// assessment inputs.
func (c *Client) GenerateArchetype(ctx context.Context, profile *model.Profile) (*ArchetypeFields, error) {
	var out ArchetypeFields
	err := c.generate(ctx, archetypeSystemPrompt, archetypePrompt(profile), "archetype_profile", json.RawMessage(archetypeSchema), &out)
	if err != nil {
		return nil, err
	}
	if out.ArchetypeName == "" {
		return nil, fmt.Errorf("%w: archetype_profile missing archetype_name", ErrUpstream)
	}
	return &out, nil
}

func archetypePrompt(p *model.Profile) string {
	enneagram := ""
	if p.Enneagram != nil {
		enneagram = strconv.FormatInt(*p.Enneagram, 10)
	}

	var b strings.Builder
	b.WriteString("Create a personalized archetype profile based on the following assessment data:\n\n")
	fmt.Fprintf(&b, "**CliftonStrengths:** %s\n\n", orNotProvided(p.Strengths))
	fmt.Fprintf(&b, "**MBTI Type:** %s\n\n", orNotProvided(p.MBTI))
	fmt.Fprintf(&b, "**Enneagram Type:** %s\n\n", orNotProvided(enneagram))
	fmt.Fprintf(&b, "**Holland Code (RIASEC):** %s\n\n", orNotProvided(p.HollandCode))
	fmt.Fprintf(&b, "**Core Values:** %s\n\n", joinOrNotProvided(p.Values))
	fmt.Fprintf(&b, "**Current Hobbies:** %s\n\n", joinOrNotProvided(p.CurrentHobbies))
	fmt.Fprintf(&b, "**Future Interest Areas:** %s\n\n", orNotProvided(p.FutureHobbies))
	fmt.Fprintf(&b, "**Skills & Expertise:** %s\n\n", orNotProvided(p.Skills))
	b.WriteString(`Please create a comprehensive archetype profile that:
1. Synthesizes insights from all provided assessments
2. Creates a unique, memorable archetype name that feels personal and inspiring
3. Provides actionable insights about work style and ideal environments
4. Identifies key motivators and potential stress triggers
5. Explains how their strengths work together in practical scenarios
6. Uses encouraging, professional language that helps the person understand themselves better

Focus on creating a cohesive narrative that shows how all these elements work together to form their unique professional and personal profile.`)
	return b.String()
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}

func joinOrNotProvided(items []string) string {
	if len(items) == 0 {
		return "Not provided"
	}
	return strings.Join(items, ", ")
}
