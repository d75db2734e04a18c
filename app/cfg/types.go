package cfg

// Cfg is the parsed command line: global options plus the selected command.
type Cfg struct {
	Command string

	ConfigPath string
	Debug      bool
	Version    string

	Setup SetupOptions
	Fetch FetchOptions
	Serve ServeOptions
}

type SetupOptions struct {
	APIID       int
	APIHash     string
	SessionName string
	ExportsDir  string
}

type FetchOptions struct {
	Format     string
	Out        string
	Limit      int
	Group      string
	GroupsFile string
}

type ServeOptions struct {
	Port         string
	APIAccessKey string
	DBPath       string
}

// Settings is the YAML settings file written by setup.
type Settings struct {
	Telegram   TelegramSettings  `yaml:"telegram"`
	Extractors ExtractorSettings `yaml:"extractors"`
}

type TelegramSettings struct {
	APIID       int    `yaml:"api_id"`
	APIHash     string `yaml:"api_hash"`
	SessionName string `yaml:"session_name"`
	ExportsDir  string `yaml:"exports_dir"`
}

type ExtractorSettings struct {
	Timeout           int             `yaml:"timeout"` // seconds
	UserAgent         string          `yaml:"user_agent"`
	RequestsPerSecond float64         `yaml:"requests_per_second"`
	MaxRetries        int             `yaml:"max_retries"`
	YouTube           YouTubeSettings `yaml:"youtube"`
	DevTo             APISettings     `yaml:"devto"`
	Medium            APISettings     `yaml:"medium"`
}

type YouTubeSettings struct {
	APIKey    string `yaml:"api_key,omitempty"`
	YtDlpPath string `yaml:"ytdlp_path"`
	APIBase   string `yaml:"api_base,omitempty"`
}

type APISettings struct {
	APIBase string `yaml:"api_base,omitempty"`
}
