package domain

import "fmt"

const (
	systemPromptTemplate = "You are a system assistant. Please write a greeting for %s. " +
		"Include some friendly banter in your greeting to make the reader feel happy. " +
		"Think about the country of origin from the user's name and generate the message " +
		"in that country's native language. "

	userPromptTemplate = "Hi, my name is %s."
)

// BuildPrompt returns the system instruction followed by the user's self-introduction.
// The name is interpolated verbatim.
func BuildPrompt(name string) PromptRequest {
	return PromptRequest{
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: fmt.Sprintf(systemPromptTemplate, name)},
			{Role: RoleUser, Content: fmt.Sprintf(userPromptTemplate, name)},
		},
	}
}
