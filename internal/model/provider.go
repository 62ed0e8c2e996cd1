package model

// Provider identifies the AI coding tool that produced a session.
type Provider string

const (
	ProviderClaudeCode Provider = "claude-code"
	ProviderCodex      Provider = "codex"
	ProviderCursor     Provider = "cursor"
	ProviderAider      Provider = "aider"
	ProviderCline      Provider = "cline"
	ProviderGeminiCLI  Provider = "gemini-cli"
	ProviderContinue   Provider = "continue"
	ProviderCopilot    Provider = "copilot"
	ProviderRooCode    Provider = "roo-code"
	ProviderWindsurf   Provider = "windsurf"
	ProviderZedAI      Provider = "zed-ai"
	ProviderAmp        Provider = "amp"
	ProviderOpenCode   Provider = "opencode"
	ProviderOpenRouter Provider = "openrouter"
)

// AllProviders returns every supported provider in registration order.
func AllProviders() []Provider {
	return []Provider{
		ProviderClaudeCode,
		ProviderCodex,
		ProviderCursor,
		ProviderAider,
		ProviderCline,
		ProviderGeminiCLI,
		ProviderContinue,
		ProviderCopilot,
		ProviderRooCode,
		ProviderWindsurf,
		ProviderZedAI,
		ProviderAmp,
		ProviderOpenCode,
		ProviderOpenRouter,
	}
}

// ParseProvider resolves a provider tag string.
func ParseProvider(s string) (Provider, bool) {
	for _, p := range AllProviders() {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func (p Provider) String() string {
	return string(p)
}
