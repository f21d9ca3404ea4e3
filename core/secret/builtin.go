package secret

// Builtin returns the bundled detectors, cheapest first. Each call returns a
// fresh slice.
func Builtin() []Detector {
	return []Detector{
		&Pattern{
			Name:        "aws-access-key-id",
			Description: "Detected an AWS Access Key ID, which can be used to access AWS resources.",
			Prefixes:    []string{"AKIA"},
			MinLength:   20,
			Entropy:     3.0,
		},
		&Pattern{
			Name:        "github-personal-access-token",
			Description: "Detected a GitHub personal access token, which grants access to repositories and account data.",
			Prefixes:    []string{"ghp_"},
			Charset:     CharsetAlnum,
			Length:      40,
			MinLength:   40,
			Entropy:     3.0,
			Check:       githubChecksum,
		},
		&Pattern{
			Name:        "google-api-key",
			Description: "Detected a Google API key, which can be billed against a Google Cloud project.",
			Prefixes:    []string{"AIza"},
			Charset:     CharsetBase64URL,
			Length:      39,
			MinLength:   39,
			Entropy:     3.5,
		},
		&Pattern{
			Name:        "stripe-secret-key",
			Description: "Detected a Stripe live secret key, which can create charges and refunds.",
			Prefixes:    []string{"sk_live_"},
			Charset:     CharsetAlnum,
			MinLength:   32,
			Entropy:     3.0,
		},
		&Pattern{
			Name:        "slack-token",
			Description: "Detected a Slack token, which can read and post messages in a workspace.",
			Prefixes:    []string{"xoxb-", "xoxp-", "xoxa-", "xoxr-"},
			Charset:     CharsetBase64URL,
			MinLength:   40,
			Entropy:     3.0,
		},
		&Pattern{
			Name:        "digitalocean-access-token",
			Description: "Detected a DigitalOcean access token, which can manage cloud resources.",
			Prefixes:    []string{"dop_v1_", "doo_v1_", "dor_v1_"},
			Charset:     CharsetLowerHex,
			Length:      71,
			MinLength:   71,
			Entropy:     3.0,
		},
		&Pattern{
			Name:        "shopify-access-token",
			Description: "Detected a Shopify access token, which can access store and customer data.",
			Prefixes:    []string{"shpat_"},
			Charset:     CharsetHex,
			Length:      38,
			MinLength:   38,
			Entropy:     3.0,
		},
		JWT{},
	}
}
