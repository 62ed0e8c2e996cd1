package redact

// Rule is one secret-detection triple. Rules are evaluated strictly in
// order: vendor-specific, high-specificity patterns first, the generic
// credential-assignment fallback last. Reordering risks the generic rule
// partially matching and miscategorizing a vendor token.
type Rule struct {
	Pattern     string
	Placeholder string
	Category    string
}

// Category tags used by the default rules.
const (
	CategoryAPIKey      = "api_key"
	CategoryOAuth       = "oauth"
	CategoryGitHub      = "github"
	CategoryAWS         = "aws"
	CategoryAzure       = "azure"
	CategoryBearer      = "bearer"
	CategoryJWT         = "jwt"
	CategorySlack       = "slack"
	CategoryStripe      = "stripe"
	CategoryDatabase    = "database"
	CategoryPrivateKey  = "private_key"
	CategoryPasswordURL = "password_url"
	CategoryCredential  = "credential"
	CategorySSH         = "ssh"
	CategoryWebhook     = "webhook"
)

// DefaultRules returns the built-in rule list. The assignment-style
// patterns exclude brackets from the value class so placeholders written
// by earlier rules are never re-matched and double-counted.
func DefaultRules() []Rule {
	return []Rule{
		// OpenAI
		{`sk-[a-zA-Z0-9]{20,}`, "[REDACTED: OpenAI API Key]", CategoryAPIKey},
		{`sk-proj-[a-zA-Z0-9-]{20,}`, "[REDACTED: OpenAI Project Key]", CategoryAPIKey},

		// Anthropic
		{`sk-ant-[a-zA-Z0-9-]{20,}`, "[REDACTED: Anthropic API Key]", CategoryAPIKey},

		// Google
		{`AIza[a-zA-Z0-9_-]{35}`, "[REDACTED: Google API Key]", CategoryAPIKey},
		{`ya29\.[a-zA-Z0-9_-]+`, "[REDACTED: Google OAuth Token]", CategoryOAuth},

		// Sourcegraph
		{`sgp_[a-zA-Z0-9_-]{40,}`, "[REDACTED: Sourcegraph Token]", CategoryAPIKey},

		// GitHub
		{`ghp_[a-zA-Z0-9]{36,}`, "[REDACTED: GitHub PAT]", CategoryGitHub},
		{`gho_[a-zA-Z0-9]{36,}`, "[REDACTED: GitHub OAuth]", CategoryGitHub},
		{`ghs_[a-zA-Z0-9]{36,}`, "[REDACTED: GitHub App Token]", CategoryGitHub},
		{`ghu_[a-zA-Z0-9]{36,}`, "[REDACTED: GitHub User Token]", CategoryGitHub},
		{`github_pat_[a-zA-Z0-9_]{22,}`, "[REDACTED: GitHub PAT v2]", CategoryGitHub},

		// AWS
		{`AKIA[0-9A-Z]{16}`, "[REDACTED: AWS Access Key]", CategoryAWS},
		{`(?i)aws_secret_access_key\s*[=:]\s*[^\s\[\]]+`, "[REDACTED: AWS Secret]", CategoryAWS},
		{`(?i)aws_session_token\s*[=:]\s*[^\s\[\]]+`, "[REDACTED: AWS Session Token]", CategoryAWS},

		// Azure
		{`(?i)azure[_-]?(?:storage|api|key)[_-]?(?:key|secret)?\s*[=:]\s*[^\s\[\]]{20,}`, "[REDACTED: Azure Key]", CategoryAzure},

		// Generic tokens
		{`Bearer\s+[a-zA-Z0-9._-]{20,}`, "[REDACTED: Bearer Token]", CategoryBearer},
		{`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`, "[REDACTED: JWT Token]", CategoryJWT},
		{`xox[baprs]-[a-zA-Z0-9-]+`, "[REDACTED: Slack Token]", CategorySlack},

		// Stripe
		{`sk_live_[a-zA-Z0-9]{24,}`, "[REDACTED: Stripe Live Key]", CategoryStripe},
		{`sk_test_[a-zA-Z0-9]{24,}`, "[REDACTED: Stripe Test Key]", CategoryStripe},
		{`pk_live_[a-zA-Z0-9]{24,}`, "[REDACTED: Stripe Pub Key]", CategoryStripe},

		// Database URLs with embedded credentials
		{`postgres(?:ql)?://[^\s]+`, "[REDACTED: PostgreSQL URL]", CategoryDatabase},
		{`mysql://[^\s]+`, "[REDACTED: MySQL URL]", CategoryDatabase},
		{`mongodb(?:\+srv)?://[^\s]+`, "[REDACTED: MongoDB URL]", CategoryDatabase},
		{`redis://[^\s]+`, "[REDACTED: Redis URL]", CategoryDatabase},
		{`amqp://[^\s]+`, "[REDACTED: AMQP URL]", CategoryDatabase},

		// PEM private-key blocks, non-greedy from BEGIN to its END
		{`-----BEGIN (?:RSA |DSA |EC |OPENSSH )?PRIVATE KEY-----[\s\S]*?-----END (?:RSA |DSA |EC |OPENSSH )?PRIVATE KEY-----`,
			"[REDACTED: Private Key Block]", CategoryPrivateKey},

		// user:password@ in URLs
		{`://([^:\s/]+):([^@\s]+)@`, "://[USER]:[REDACTED]@", CategoryPasswordURL},

		// Generic assignment fallback — must stay after every vendor rule.
		{`(?i)(?:password|passwd|pwd|secret|token|api[_-]?key)\s*[=:]\s*["']?[^"'\s\[\]]{8,}["']?`,
			"[REDACTED: Credential]", CategoryCredential},

		// SSH public keys
		{`ssh-(?:rsa|ed25519|ecdsa)\s+[A-Za-z0-9+/]+={0,2}`, "[REDACTED: SSH Public Key]", CategorySSH},

		// Webhook URLs
		{`https://hooks\.slack\.com/[^\s]+`, "[REDACTED: Slack Webhook]", CategoryWebhook},
		{`https://discord\.com/api/webhooks/[^\s]+`, "[REDACTED: Discord Webhook]", CategoryWebhook},
	}
}
