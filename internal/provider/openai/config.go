package openai

const (
	// APITypeOpenAI talks to api.openai.com or any OpenAI-compatible endpoint.
	APITypeOpenAI = "openai"

	// APITypeAzure talks to an Azure OpenAI resource.
	APITypeAzure = "azure"
)

// Config contains chat-completion client configuration.
// Fields map to OpenAI SDK options:
//   - APIKey: option.WithAPIKey() or the api-key header for Azure
//   - BaseURL: option.WithBaseURL(), the resource endpoint for Azure
//   - APIVersion: api-version query parameter (Azure only)
//   - Timeout: option.WithRequestTimeout() in seconds, 0 keeps the transport default
type Config struct {
	APIType    string `env:"OPENAI_API_TYPE"    envDefault:"azure"`
	APIKey     string `env:"OPENAI_API_KEY"`
	BaseURL    string `env:"OPENAI_API_BASE"`
	APIVersion string `env:"OPENAI_API_VERSION" envDefault:"2023-05-15"`
	Deployment string `env:"OPENAI_DEPLOYMENT"  envDefault:"gpt-35-turbo"`
	Timeout    int    `env:"OPENAI_TIMEOUT"     envDefault:"0"`
}
