package config

// Auth groups the settings of the supported login methods.
type Auth struct {
	OIDC OIDCAuth
}

// OIDCAuth configures single sign-on through an OpenID Connect provider.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string // discovery URL, e.g. https://login.microsoftonline.com/<tenant>/v2.0
	ClientID     string
	ClientSecret string
	RedirectURL  string // must point at /api/auth/callback
	Scopes       []string
}
