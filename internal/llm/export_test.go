package llm

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

var (
	WithDeepSeekHTTPClient = withDeepSeekHTTPClient
	WithOpenAIHTTPClient   = withOpenAIHTTPClient
	WithChatCompleter      = withChatCompleter
)

// Function exports for unit testing internal logic.
var (
	ClassifyOpenAIError = classifyOpenAIError
)
