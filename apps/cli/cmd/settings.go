package cmd

import (
	"github.com/abdul-hamid-achik/httpc/packages/core/config"
	"github.com/abdul-hamid-achik/httpc/packages/http"
	"github.com/spf13/cobra"
)

var (
	configFlag       string
	envFileFlag      string
	idleTimeoutFlag  int
	closeTimeoutFlag int
	dialTimeoutFlag  int
	proxyFlag        string
	promptFlag       string
	historyFlag      string
	logLevelFlag     string
	logFormatFlag    string
	noColorFlag      bool
	prettyFlag       bool
	verboseFlag      bool
	watchConfigFlag  bool
)

// registerSettingsFlags adds the flags that override config file and
// environment settings. get, post and help take their arguments verbatim,
// so these only apply to the REPL, history and bench.
func registerSettingsFlags(c *cobra.Command) {
	flags := c.PersistentFlags()
	flags.StringVar(&configFlag, "config", "", "Path to config file (default: search the working directory)")
	flags.StringVar(&envFileFlag, "env-file", config.DefaultDotEnvFile, "File of HTTPC_* variables, below the real environment")
	flags.IntVar(&idleTimeoutFlag, "idle-timeout", config.DefaultIdleTimeout, "Milliseconds after connecting before the request side is closed (env: HTTPC_IDLE_TIMEOUT)")
	flags.IntVar(&closeTimeoutFlag, "close-timeout", config.DefaultCloseTimeout, "Milliseconds to wait for the server after closing the request side (env: HTTPC_CLOSE_TIMEOUT)")
	flags.IntVar(&dialTimeoutFlag, "dial-timeout", config.DefaultDialTimeout, "Milliseconds allowed for connecting (env: HTTPC_DIAL_TIMEOUT)")
	flags.StringVar(&proxyFlag, "proxy", "", "SOCKS5 proxy, e.g. socks5://127.0.0.1:1080 (env: HTTPC_PROXY)")
	flags.StringVar(&promptFlag, "prompt", config.DefaultPrompt, "REPL prompt (env: HTTPC_PROMPT)")
	flags.StringVar(&historyFlag, "history", "", "History database path, \"-\" disables (env: HTTPC_HISTORY)")
	flags.StringVar(&logLevelFlag, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error, off (env: HTTPC_LOG_LEVEL)")
	flags.StringVar(&logFormatFlag, "log-format", "console", "Log format: console or json")
	flags.BoolVar(&noColorFlag, "no-color", false, "Disable colored output (env: HTTPC_NO_COLOR)")
	flags.BoolVar(&prettyFlag, "pretty", false, "Indent JSON response bodies (env: HTTPC_PRETTY)")
	flags.BoolVar(&verboseFlag, "verbose", false, "Always print the full response (env: HTTPC_VERBOSE)")
}

// flagConfig holds only the flags given explicitly on the command line
func flagConfig(c *cobra.Command) *config.Config {
	flags := c.Flags()
	cfg := &config.Config{}

	if flags.Changed("idle-timeout") {
		cfg.IdleTimeout = idleTimeoutFlag
	}
	if flags.Changed("close-timeout") {
		cfg.CloseTimeout = closeTimeoutFlag
	}
	if flags.Changed("dial-timeout") {
		cfg.DialTimeout = dialTimeoutFlag
	}
	if flags.Changed("proxy") {
		cfg.Proxy = proxyFlag
	}
	if flags.Changed("prompt") {
		cfg.Prompt = promptFlag
	}
	if flags.Changed("history") {
		cfg.History = historyFlag
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevelFlag
	}
	if flags.Changed("no-color") {
		cfg.NoColor = config.BoolPtr(noColorFlag)
	}
	if flags.Changed("pretty") {
		cfg.Pretty = config.BoolPtr(prettyFlag)
	}
	if flags.Changed("verbose") {
		cfg.Verbose = config.BoolPtr(verboseFlag)
	}

	return cfg
}

// settingsOverlay is everything layered above the config file: the .env
// file, the process environment, then flags
func settingsOverlay(c *cobra.Command) (*config.Config, error) {
	dotEnv, err := config.FromDotEnv(envFileFlag)
	if err != nil {
		return nil, &configError{Path: envFileFlag, Err: err}
	}
	return dotEnv.Merge(config.FromEnv()).Merge(flagConfig(c)), nil
}

// loadSettings resolves defaults, config file, environment and flags, and
// returns the config file path in use ("" when none was found).
func loadSettings(c *cobra.Command) (*config.Config, string, error) {
	path := configFlag
	if path == "" {
		path = config.FindConfigFile(".")
	}

	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", &configError{Path: path, Err: err}
	}

	overlay, err := settingsOverlay(c)
	if err != nil {
		return nil, "", err
	}

	cfg := fileCfg.Merge(overlay)
	if err := http.ValidateProxy(cfg.Proxy); err != nil {
		return nil, "", &configError{Path: path, Err: err}
	}

	return cfg, path, nil
}
