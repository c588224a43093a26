package config

const (
	defaultOutputsDir           = "~/fieldlens/reports"
	defaultTemplateDir          = "~/.config/fieldlens/templates"
	defaultLogDir               = "~/.local/share/fieldlens/logs"
	defaultAnalysisConcurrency  = 3
	defaultVisionProvider       = "openai"
	defaultVisionBaseURL        = "https://api.openai.com/v1"
	defaultVisionModel          = "gpt-5-nano"
	defaultVisionTimeoutSeconds = 120
	defaultVisionMaxRetries     = 3
	defaultWebTemplateName      = "gallery.html"
	defaultPortalDBPath         = "~/.local/share/fieldlens/portal.db"
	defaultPortalBaseURL        = "http://localhost:8000"
	defaultPortalTokenTTLHours  = 720
	defaultLogFormat            = "auto"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputsDir:  defaultOutputsDir,
			CacheDir:    defaultCacheDir(),
			TemplateDir: defaultTemplateDir,
			LogDir:      defaultLogDir,
		},
		Analysis: Analysis{
			Concurrency:  defaultAnalysisConcurrency,
			CacheEnabled: true,
		},
		Vision: Vision{
			Provider:       defaultVisionProvider,
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeoutSeconds,
			MaxRetries:     defaultVisionMaxRetries,
		},
		Web: Web{
			TemplateName: defaultWebTemplateName,
		},
		Portal: Portal{
			DBPath:        defaultPortalDBPath,
			BaseURL:       defaultPortalBaseURL,
			TokenTTLHours: defaultPortalTokenTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
