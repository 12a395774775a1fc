package suggest

import (
	"strings"
	"text/template"
)

const promptText = `You are a creative assistant helping to generate content for sticky notes.

Based on the given topic, generate concise and relevant content suitable for a sticky note.

Topic: {{.Topic}}`

var promptTemplate = template.Must(template.New("note").Parse(promptText))

// Prompt renders the instruction sent to the model for req.
func Prompt(req Request) (string, error) {
	var b strings.Builder
	if err := promptTemplate.Execute(&b, req); err != nil {
		return "", err
	}
	return b.String(), nil
}
