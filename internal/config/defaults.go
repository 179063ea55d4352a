package config

const (
	defaultDataDir             = "~/.local/share/showsync"
	defaultLogDir              = "~/.local/share/showsync/logs"
	defaultAPIBind             = "127.0.0.1:7842"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultTraktBaseURL        = "https://api.trakt.tv"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultNtfyRequestTimeout  = 10
	defaultUpcomingWindowHours = 24
	defaultAutoSyncInterval    = 20
	defaultRequestTimeout      = 30
	defaultConnectivityProbe   = "api.themoviedb.org:443"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Trakt: Trakt{
			BaseURL: defaultTraktBaseURL,
		},
		Notifications: Notifications{
			RequestTimeout:      defaultNtfyRequestTimeout,
			UpcomingWindowHours: defaultUpcomingWindowHours,
		},
		Sync: Sync{
			AutoSyncIntervalMinutes: defaultAutoSyncInterval,
			RequestTimeoutSeconds:   defaultRequestTimeout,
			ConnectivityProbe:       defaultConnectivityProbe,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
