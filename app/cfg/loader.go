package cfg

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	Config string `short:"c" long:"config" env:"TELELINKER_CONFIG" default:"config.yml" description:"Path to the settings file"`
	Debug  bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Setup rawSetup `command:"setup" description:"Write the settings file"`
	Login rawLogin `command:"login" description:"Authorise against a Telegram export directory"`
	Fetch rawFetch `command:"fetch" description:"Extract link metadata from group messages and export it"`
	Serve rawServe `command:"serve" description:"Run the HTTP API"`
}

type rawSetup struct {
	APIID       int    `long:"api-id" env:"TELEGRAM_API_ID" description:"Telegram API id" required:"true"`
	APIHash     string `long:"api-hash" env:"TELEGRAM_API_HASH" description:"Telegram API hash" required:"true"`
	SessionName string `long:"session-name" default:"telelinker" description:"Session name; the session is stored as <name>.session"`
	ExportsDir  string `long:"exports-dir" env:"TELEGRAM_EXPORTS_DIR" default:"./exports" description:"Directory with Telegram Desktop JSON exports"`
}

type rawLogin struct{}

type rawFetch struct {
	Format     string   `short:"f" long:"format" default:"csv" description:"Output format: csv, postgresql or sqlite"`
	Out        string   `short:"o" long:"out" description:"Output file (default posts.csv, posts.sql or posts.db)"`
	Limit      int      `short:"l" long:"limit" default:"-1" description:"Maximum number of messages to read per group (-1 reads all)"`
	Group      groupArg `short:"g" long:"group" description:"Group id"`
	GroupsFile string   `long:"groups-file" description:"File with one group id per line"`
}

// groupArg lets go-flags accept negative group ids such as -1001234567890
// as option values.
type groupArg string

func (groupArg) IsValidValue(value string) error {
	if len(value) > 1 && value[0] == '-' && (value[1] < '0' || value[1] > '9') {
		return fmt.Errorf("expected a group id, got option `%s'", value)
	}
	return nil
}

type rawServe struct {
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	DBPath       string `long:"db" env:"TELELINKER_DB" description:"SQLite database written by 'fetch --format sqlite'"`
}

// Load parses args. It returns nil, nil when help was requested.
func Load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)
	parser.Name = "telelinker"

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Command:    parser.Active.Name,
		ConfigPath: raw.Config,
		Debug:      raw.Debug,
		Version:    GetVersion(),
		Setup: SetupOptions{
			APIID:       raw.Setup.APIID,
			APIHash:     raw.Setup.APIHash,
			SessionName: raw.Setup.SessionName,
			ExportsDir:  raw.Setup.ExportsDir,
		},
		Fetch: FetchOptions{
			Format:     raw.Fetch.Format,
			Out:        raw.Fetch.Out,
			Limit:      raw.Fetch.Limit,
			Group:      string(raw.Fetch.Group),
			GroupsFile: raw.Fetch.GroupsFile,
		},
		Serve: ServeOptions{
			Port:         raw.Serve.Port,
			APIAccessKey: raw.Serve.APIAccessKey,
			DBPath:       raw.Serve.DBPath,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Cfg) validate() error {
	if c.Command != "fetch" {
		return nil
	}

	switch {
	case c.Fetch.Group == "" && c.Fetch.GroupsFile == "":
		return fmt.Errorf("fetch requires --group or --groups-file")
	case c.Fetch.Group != "" && c.Fetch.GroupsFile != "":
		return fmt.Errorf("--group and --groups-file are mutually exclusive")
	case c.Fetch.Limit < -1:
		return fmt.Errorf("--limit must be -1 (all messages) or a non-negative number, got %d", c.Fetch.Limit)
	}

	return nil
}
