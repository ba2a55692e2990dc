package story

import (
	"fmt"
	"strings"

	"parrot/internal/fault"
	"parrot/pkg/ai"
)

// Page is a single page of a generated story. The image prompt is carried
// through for clients that render illustrations, the composer ignores it.
type Page struct {
	Text        string `json:"text"`
	ImagePrompt string `json:"image_prompt"`
}

// Story is the structured output of the story generation prompt.
type Story struct {
	Title string `json:"title"`
	Pages []Page `json:"pages"`
}

const promptTemplate = `Create a children's story based on this prompt: %s
Format the response as a JSON object with the following structure:
{
    "title": "Story Title",
    "pages": [
        {
            "text": "Page text content",
            "image_prompt": "Description for generating an illustration"
        }
    ]
}
The story should be 5 pages long.`

// Prompt builds the structured story prompt for the given user request.
func Prompt(request string) string {
	return fmt.Sprintf(promptTemplate, request)
}

// Parse extracts and validates a Story from raw model output. Models wrap
// their JSON in prose and code fences, so everything outside the outermost
// braces is discarded before unmarshalling.
func Parse(raw string) (Story, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return Story{}, fault.New(fault.KindInvalidStoryJSON,
			"No JSON object found in response")
	}

	var s Story
	if err := ai.UnmarshalFlexible(raw[start:end+1], &s); err != nil {
		return Story{}, fault.Wrap(fault.KindInvalidStoryJSON, err,
			"Invalid story JSON")
	}

	if err := Validate(s); err != nil {
		return Story{}, err
	}

	return s, nil
}

// Validate checks the structural requirements every story must meet
// regardless of how it was produced.
func Validate(s Story) error {
	if strings.TrimSpace(s.Title) == "" {
		return fault.New(fault.KindInvalidStoryJSON,
			"Story is missing a title")
	}
	if len(s.Pages) == 0 {
		return fault.New(fault.KindInvalidStoryJSON,
			"Story has no pages")
	}
	return nil
}
