/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "HIDDENLEADER"

type Config struct {
	bind           string
	chatBurst      int
	chatRate       float64
	keepRoster     bool
	logLevel       string
	phaseTimeout   time.Duration
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid --session-timeout (must not be negative): %s", c.sessionTimeout)
	}
	if c.phaseTimeout < 0 {
		return fmt.Errorf("invalid --phase-timeout (must not be negative): %s", c.phaseTimeout)
	}
	if c.chatRate < 0 {
		return fmt.Errorf("invalid --chat-rate (must not be negative): %v", c.chatRate)
	}
	if c.chatRate > 0 && c.chatBurst < 1 {
		return fmt.Errorf("invalid --chat-burst (must be at least 1 when --chat-rate is set): %d", c.chatBurst)
	}
	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

// level resolves the configured log level. --verbose always means debug.
func (c *Config) level() (zapcore.Level, error) {
	if c.verbose {
		return zapcore.DebugLevel, nil
	}

	l, err := zapcore.ParseLevel(c.logLevel)
	if err != nil {
		return l, fmt.Errorf("invalid --log-level: %w", err)
	}

	return l, nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hiddenleader",
		Short:         "Serves a hidden-role election game for five to ten players over WebSockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HIDDENLEADER_BIND)")
	fs.IntVar(&cfg.chatBurst, "chat-burst", 10, "messages a connection may send at once before throttling (env: HIDDENLEADER_CHAT_BURST)")
	fs.Float64Var(&cfg.chatRate, "chat-rate", 5, "sustained messages per second per connection, 0 to disable (env: HIDDENLEADER_CHAT_RATE)")
	fs.BoolVar(&cfg.keepRoster, "keep-roster", false, "keep players seated after a game ends (env: HIDDENLEADER_KEEP_ROSTER)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "minimum log level: debug, info, warn, error (env: HIDDENLEADER_LOG_LEVEL)")
	fs.DurationVar(&cfg.phaseTimeout, "phase-timeout", 0, "reset a game stuck in one phase this long, 0 to wait forever (env: HIDDENLEADER_PHASE_TIMEOUT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HIDDENLEADER_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HIDDENLEADER_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof and room debug handlers (env: HIDDENLEADER_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are closed, 0 to keep them forever (env: HIDDENLEADER_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HIDDENLEADER_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HIDDENLEADER_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log at debug level (env: HIDDENLEADER_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HIDDENLEADER_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hiddenleader v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
