package config

const (
	defaultStoreName        = "Beats By M.A.J."
	defaultBaseURL          = "http://localhost:4242"
	defaultBind             = "127.0.0.1:4242"
	defaultDataDir          = "~/.local/share/beatstore/data"
	defaultMediaDir         = "~/.local/share/beatstore/media"
	defaultLogDir           = "~/.local/share/beatstore/logs"
	defaultEmailPort        = 587
	defaultEmailFrom        = "Beats By M.A.J. <no-reply@yourdomain.com>"
	defaultEmailTimeout     = 30
	defaultWebhookTolerance = 300
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Store: Store{
			Name:    defaultStoreName,
			BaseURL: defaultBaseURL,
			Bind:    defaultBind,
		},
		Paths: Paths{
			DataDir:  defaultDataDir,
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
		},
		Email: Email{
			Port:           defaultEmailPort,
			From:           defaultEmailFrom,
			TimeoutSeconds: defaultEmailTimeout,
		},
		Checkout: Checkout{
			ToleranceSeconds: defaultWebhookTolerance,
			DevEndpoints:     true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
