package config

const (
	defaultStagingDir      = "~/.local/share/storycast/staging"
	defaultBackgroundsDir  = "~/.local/share/storycast/backgrounds"
	defaultLogDir          = "~/.local/share/storycast/logs"
	defaultLedgerPath      = "~/.local/share/storycast/ledger.db"
	defaultVoice           = "en_us_001"
	defaultMaxChars        = 500
	defaultSilenceSeconds  = 0.5
	defaultMaxTotalSeconds = 50
	defaultAudioVolume     = 0.15
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir:     defaultStagingDir,
			BackgroundsDir: defaultBackgroundsDir,
			LogDir:         defaultLogDir,
			LedgerPath:     defaultLedgerPath,
		},
		TTS: TTS{
			Voice:          defaultVoice,
			MaxChars:       defaultMaxChars,
			SilenceSeconds: defaultSilenceSeconds,
		},
		Thread: Thread{
			MaxTotalSeconds: defaultMaxTotalSeconds,
		},
		Background: Background{
			AudioVolume: defaultAudioVolume,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
