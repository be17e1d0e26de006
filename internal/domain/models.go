package domain

import "errors"

// Role tags a chat message with its speaker.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// DefaultDeployment is the hosted model instance used when none is configured.
	DefaultDeployment = "gpt-35-turbo"

	// MaxTokens caps the length of every generated greeting.
	MaxTokens = 500

	// CandidateCount is the number of completions requested per call.
	CandidateCount = 1

	// Temperature 0 selects greedy decoding.
	Temperature = 0.0
)

// ErrEmptyCompletion is returned when the remote service answers without any choice.
var ErrEmptyCompletion = errors.New("completion returned no choices")

// ErrNameRequired is returned when a greeting is requested without a name.
var ErrNameRequired = errors.New("name is required")

// ChatMessage represents a single role-tagged chat message.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PromptRequest is the ordered conversation sent to the completion service.
type PromptRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// InvocationParameters are the fixed settings sent with every completion call.
type InvocationParameters struct {
	Deployment     string  `json:"deployment"`
	MaxTokens      int     `json:"max_tokens"`
	CandidateCount int     `json:"n"`
	Temperature    float64 `json:"temperature"`
}

// NewInvocationParameters returns the fixed parameters for the given deployment.
// An empty deployment falls back to DefaultDeployment.
func NewInvocationParameters(deployment string) InvocationParameters {
	if deployment == "" {
		deployment = DefaultDeployment
	}

	return InvocationParameters{
		Deployment:     deployment,
		MaxTokens:      MaxTokens,
		CandidateCount: CandidateCount,
		Temperature:    Temperature,
	}
}

// Usage tracks token consumption reported by the remote service.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResult holds either the generated text or the failure, never both.
type CompletionResult struct {
	Text  string
	Usage Usage
	Err   error
}

// Success builds a successful result.
func Success(text string, usage Usage) CompletionResult {
	return CompletionResult{Text: text, Usage: usage, Err: nil}
}

// Failure builds a failed result. A nil error is treated as ErrEmptyCompletion.
func Failure(err error) CompletionResult {
	if err == nil {
		err = ErrEmptyCompletion
	}
	return CompletionResult{Text: "", Usage: Usage{}, Err: err}
}

// Failed reports whether the call failed.
func (r CompletionResult) Failed() bool {
	return r.Err != nil
}
