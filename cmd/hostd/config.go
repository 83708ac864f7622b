package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	serverURL  string
	name       string
	minPlayers int
	period     time.Duration
	timeout    time.Duration
	logLevel   string
}

func (c *Config) validate() error {
	if c.serverURL == "" {
		return errors.New("--server-url is required")
	}
	if c.minPlayers < 2 {
		return fmt.Errorf("invalid --min-players (a game needs at least 2): %d", c.minPlayers)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUICKDRAW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hostd",
		Short:         "Headless quick-draw host: creates a room and drives stage transitions for it.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return runHost(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.serverURL, "server-url", "s", "http://localhost:8080", "base URL of the room service (env: QUICKDRAW_SERVER_URL)")
	fs.StringVarP(&cfg.name, "name", "n", "host", "display name to log in with (env: QUICKDRAW_NAME)")
	fs.IntVarP(&cfg.minPlayers, "min-players", "m", 2, "players to wait for before starting the game (env: QUICKDRAW_MIN_PLAYERS)")
	fs.DurationVar(&cfg.period, "period", time.Second, "room poll interval (env: QUICKDRAW_PERIOD)")
	fs.DurationVar(&cfg.timeout, "timeout", 10*time.Second, "per-request timeout (env: QUICKDRAW_TIMEOUT)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level (env: QUICKDRAW_LOG_LEVEL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}
