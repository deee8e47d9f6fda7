package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/trailhead-app/trailhead/internal/model"
)

// CareerFields is one structured career recommendation, persisted verbatim.
type CareerFields struct {
	Title           string `json:"title"`
	Category        string `json:"category"`
	MatchReason     string `json:"match_reason"`
	ExampleTasks    string `json:"example_tasks"`
	EnergyLevel     string `json:"energy_level"`
	IncomeRange     string `json:"income_range"`
	GrowthPotential string `json:"growth_potential"`
}

const careerSystemPrompt = "You are an expert career counselor with deep knowledge of various industries, roles, and career paths. You provide practical, actionable career recommendations based on personality assessments and individual strengths."

const careerSchema = `{
  "type": "object",
  "properties": {
    "careers": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string", "description": "The job title or career name"},
          "category": {"type": "string", "description": "The industry or field category"},
          "match_reason": {"type": "string", "description": "Why this career matches their profile (2-3 sentences)"},
          "example_tasks": {"type": "string", "description": "Typical day-to-day activities in this role"},
          "energy_level": {"type": "string", "description": "Required energy level: High, Medium, or Low"},
          "income_range": {"type": "string", "description": "Typical salary range (e.g., '$50k-80k', '$80k-120k')"},
          "growth_potential": {"type": "string", "description": "Career advancement opportunities"}
        },
        "required": ["title", "category", "match_reason", "example_tasks", "energy_level", "income_range", "growth_potential"],
        "additionalProperties": false
      }
    }
  },
  "required": ["careers"],
  "additionalProperties": false
}`

// GenerateCareers produces career recommendations from a profile and its
// archetype. The archetype may be nil if generation is run before one exists.
func (c *Client) GenerateCareers(ctx context.Context, profile *model.Profile, archetype *model.Archetype) ([]CareerFields, error) {
	var out struct {
		Careers []CareerFields `json:"careers"`
	}
	err := c.generate(ctx, careerSystemPrompt, careerPrompt(profile, archetype), "career_recommendations", json.RawMessage(careerSchema), &out)
	if err != nil {
		return nil, err
	}
	if len(out.Careers) == 0 {
		return nil, fmt.Errorf("%w: career_recommendations is empty", ErrUpstream)
	}
	for _, career := range out.Careers {
		if career.Title == "" {
			return nil, fmt.Errorf("%w: career recommendation missing title", ErrUpstream)
		}
	}
	return out.Careers, nil
}

func careerPrompt(p *model.Profile, a *model.Archetype) string {
	archetypeName, archetypeDesc, workStyle, idealEnvironments := "", "", "", ""
	var tags []string
	if a != nil {
		archetypeName = a.ArchetypeName
		archetypeDesc = a.Description
		workStyle = a.WorkStyle
		idealEnvironments = a.IdealEnvironments
		tags = a.Tags
	}

	enneagram := ""
	if p.Enneagram != nil {
		enneagram = strconv.FormatInt(*p.Enneagram, 10)
	}

	var b strings.Builder
	b.WriteString("Based on the following comprehensive personality profile, generate 15 diverse career recommendations:\n\n")
	fmt.Fprintf(&b, "**Archetype:** %s\n", orNotProvided(archetypeName))
	fmt.Fprintf(&b, "**Archetype Description:** %s\n\n", orNotProvided(archetypeDesc))
	b.WriteString("**Assessment Data:**\n")
	fmt.Fprintf(&b, "- CliftonStrengths: %s\n", orNotProvided(p.Strengths))
	fmt.Fprintf(&b, "- MBTI: %s\n", orNotProvided(p.MBTI))
	fmt.Fprintf(&b, "- Enneagram: %s\n", orNotProvided(enneagram))
	fmt.Fprintf(&b, "- Holland Code: %s\n\n", orNotProvided(p.HollandCode))
	b.WriteString("**Personal Profile:**\n")
	fmt.Fprintf(&b, "- Core Values: %s\n", joinOrNotProvided(p.Values))
	fmt.Fprintf(&b, "- Current Hobbies: %s\n", joinOrNotProvided(p.CurrentHobbies))
	fmt.Fprintf(&b, "- Future Interests: %s\n", orNotProvided(p.FutureHobbies))
	fmt.Fprintf(&b, "- Skills: %s\n", orNotProvided(p.Skills))
	fmt.Fprintf(&b, "- Work Style: %s\n", orNotProvided(workStyle))
	fmt.Fprintf(&b, "- Ideal Environments: %s\n", orNotProvided(idealEnvironments))
	fmt.Fprintf(&b, "- Key Tags: %s\n\n", joinOrNotProvided(tags))
	b.WriteString(`Please provide career recommendations that:

1. **Span different industries** - Include tech, healthcare, business, creative, education, non-profit, etc.
2. **Vary in requirements** - Mix of entry-level, mid-career, and senior opportunities
3. **Match personality traits** - Align with their MBTI, Enneagram, and strengths
4. **Reflect their values** - Consider what matters most to them
5. **Build on interests** - Connect to their hobbies and future aspirations
6. **Utilize their skills** - Leverage their existing expertise
7. **Fit work style** - Match how they prefer to work and collaborate

For each career:
- Choose realistic job titles that exist in today's market
- Provide specific, actionable reasons why this role fits their profile
- Include practical day-to-day task examples
- Give accurate salary ranges based on current market data
- Assess energy requirements honestly
- Describe realistic growth potential and advancement paths

Focus on careers that would genuinely energize this person and play to their natural strengths while offering meaningful work aligned with their values.`)
	return b.String()
}
