package config

const (
	defaultDataDir  = "~/.local/share/postforge/data"
	defaultPostsDir = "~/.local/share/postforge/posts"
	defaultLogDir   = "~/.local/share/postforge/logs"

	defaultLoginTimeout     = 30
	defaultChallengeWait    = 120
	defaultSlowMotionMS     = 500
	defaultNavTimeout       = 30
	defaultSelectorTimeout  = 10
	defaultLLMBaseURL       = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel         = "google/gemini-3-flash-preview"
	defaultLLMTimeout       = 60
	defaultDomain           = "AI and Machine Learning"
	defaultMaxChars         = 3000
	defaultImageWidth       = 1200
	defaultImageHeight      = 630
	defaultGenerateCron     = "0 9,15,21 * * *"
	defaultPublishCron      = "0 10,16 * * 1-5"
	defaultMaintenanceCron  = "0 2 * * *"
	defaultMaxPostsPerDay   = 3
	defaultMinQueueSize     = 5
	defaultSelectionPolicy  = "random"
	defaultPublishDelayMin  = 30
	defaultPublishDelayMax  = 120
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			PostsDir: defaultPostsDir,
			LogDir:   defaultLogDir,
		},
		LinkedIn: LinkedIn{
			LoginTimeout:         defaultLoginTimeout,
			ChallengeWaitSeconds: defaultChallengeWait,
		},
		Browser: Browser{
			Headless:          true,
			SlowMotionMS:      defaultSlowMotionMS,
			NavigationTimeout: defaultNavTimeout,
			SelectorTimeout:   defaultSelectorTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Generation: Generation{
			DefaultDomain: defaultDomain,
			MaxChars:      defaultMaxChars,
		},
		Images: Images{
			Width:  defaultImageWidth,
			Height: defaultImageHeight,
		},
		Schedule: Schedule{
			GenerateCron:        defaultGenerateCron,
			PublishCron:         defaultPublishCron,
			MaintenanceCron:     defaultMaintenanceCron,
			MaxPostsPerDay:      defaultMaxPostsPerDay,
			MinQueueSize:        defaultMinQueueSize,
			AutoGenerate:        true,
			AutoPublish:         true,
			SelectionPolicy:     defaultSelectionPolicy,
			PublishDelayMinSecs: defaultPublishDelayMin,
			PublishDelayMaxSecs: defaultPublishDelayMax,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Publishes:      true,
			Errors:         true,
			Reports:        true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
