package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hamptonroads/devtracker/app/gazetteer"
)

const (
	relevanceTokens = 3000
	cityTokens      = 2000
	extractTokens   = 4000
)

// Models often wrap JSON output in explanatory prose. Grab the outermost object.
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSON pulls a JSON object out of free-form model output. Returns false
// when no parseable object is present.
func ExtractJSON(response string) (map[string]any, bool) {
	match := jsonObject.FindString(response)
	if match == "" {
		return nil, false
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(match), &data); err != nil {
		return nil, false
	}
	return data, true
}

// IsRelevant asks the model whether the text describes development activity in
// the region. Any model failure counts as "not relevant" rather than an error.
func IsRelevant(ctx context.Context, model Model, g *gazetteer.Gazetteer, text string, title string) bool {
	prompt := fmt.Sprintf(`Determine if the following text is about a development project, building construction, infrastructure, or real estate development in the Hampton Roads region of Virginia.

TITLE: %s

TEXT:
%s

The Hampton Roads region includes:
%s.

Respond with only "yes" if it's about a development project in Hampton Roads, or "no" if it's not.`, title, TruncateTokens(text, relevanceTokens), strings.Join(localityNames(g), ", "))

	response, err := model.Generate(ctx, prompt, 10)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(response)), "yes")
}

// DetectCity asks the model which locality the text is primarily about,
// restricted to the gazetteer's vocabulary. Returns the matching locality name
// or "" when the model answers with something outside the vocabulary.
func DetectCity(ctx context.Context, model Model, g *gazetteer.Gazetteer, text string) string {
	prompt := fmt.Sprintf(`Read the following text and determine which city or locality in Hampton Roads, Virginia is primarily mentioned.

TEXT:
%s

The possible cities/localities are:
%s

Respond with only the name of the primary city/locality discussed. If no specific city is clearly mentioned, respond with "unknown".`, TruncateTokens(text, cityTokens), "- "+strings.Join(localityNames(g), "\n- "))

	response, err := model.Generate(ctx, prompt, 50)
	if err != nil {
		return ""
	}

	answer := strings.ToLower(strings.TrimSpace(response))
	for _, loc := range g.Localities {
		if strings.Contains(answer, strings.ToLower(loc.Name)) {
			return loc.Name
		}
	}
	return ""
}

// ExtractProjectInfo asks the model for structured fields describing a
// development project. Missing or garbled output yields a map of null fields.
func ExtractProjectInfo(ctx context.Context, model Model, text string, url string) map[string]any {
	prompt := fmt.Sprintf(`Read the following text about a potential development project in Hampton Roads, Virginia, and extract structured information.

TEXT:
%s

URL: %s

Extract the following information in JSON format:
- project_name: The name of the development project
- description: A brief description of the project
- location: Where the project is located (city, address, etc.)
- key_players: Organizations and people involved (developers, contractors, etc.)
- project_cost: The cost of the project if mentioned
- timeline: Information about when the project will start/complete
- project_type: Type of development (commercial, residential, mixed-use, infrastructure, etc.)
- contact_info: Any contact information for the project

Output JSON format only, nothing else.
If a field cannot be determined, use null.`, TruncateTokens(text, extractTokens), url)

	empty := map[string]any{
		"project_name": nil,
		"description":  nil,
		"location":     nil,
		"key_players":  nil,
		"project_cost": nil,
		"timeline":     nil,
		"project_type": nil,
		"contact_info": nil,
	}

	response, err := model.Generate(ctx, prompt, 1000)
	if err != nil {
		return empty
	}

	if data, ok := ExtractJSON(response); ok {
		return data
	}
	return empty
}

func localityNames(g *gazetteer.Gazetteer) []string {
	names := make([]string, 0, len(g.Localities))
	for _, loc := range g.Localities {
		names = append(names, loc.Name)
	}
	return names
}
