package answer

import (
	"bytes"
	"fmt"
	"text/template"
)

const promptTemplate = `You are an expert hackathon assistant. Answer the following query accurately:

User Query: {{.Query}}

Provide detailed, helpful responses based on common hackathon rules, judging criteria, team requirements, and prizes.`

var prompt = template.Must(template.New("hackathonPrompt").Parse(promptTemplate))

// BuildPrompt embeds query into the fixed hackathon assistant prompt.
func BuildPrompt(query string) (string, error) {
	var buf bytes.Buffer
	if err := prompt.Execute(&buf, struct{ Query string }{Query: query}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
