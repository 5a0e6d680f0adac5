// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"bytes"
	"text/template"

	"github.com/rotisserie/eris"
)

// DefaultSystemPrompt instructs the model to answer with a bare 0-100 integer.
const DefaultSystemPrompt = `You evaluate how relevant academic papers are to a given topic. Read the paper abstract and the topic description, then rate the relevance on a scale from 0 to 100, where 0 means the paper has nothing to do with the topic and 100 means it is squarely about the topic. Judge the depth of alignment with the topic, not just shared keywords. Reply with the integer score only, with no commentary or justification.`

// userPromptTmpl is the per-paper user message.
var userPromptTmpl = template.Must(template.New("user").Parse(`Topic: {{.Topic}} 
 Abstract: {{.Abstract}}`))

// Prompt is one system + user exchange sent to a Backend.
type Prompt struct {
	System string
	User   string
}

// BuildPrompt renders the user message for one abstract.
func BuildPrompt(system, topic, abstract string) (Prompt, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct{ Topic, Abstract string }{topic, abstract})
	if err != nil {
		return Prompt{}, eris.Wrap(err, "score: rendering prompt")
	}
	return Prompt{System: system, User: buf.String()}, nil
}
