// Package cmd wires the drawd command line: the audit service and local
// round tooling.
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/cometbft/cometbft/libs/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gangov/vrf-poker-activity/internal/round"
)

const envPrefix = "DRAWD"

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagDomainTag = "domain-tag"
)

// NewRootCmd builds the command tree. Every flag can also be set through a
// DRAWD_ prefixed environment variable or the config file.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "drawd",
		Short: "Verifiable multi-party card draw",
		Long: `drawd runs commit-reveal card draws where every player draws with a VRF
over a jointly fixed seed, and audits the resulting public transcripts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v, cmd)
		},
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().String(flagLogLevel, "info", "log level (debug|info|error|none)")
	rootCmd.PersistentFlags().String(flagDomainTag, round.DefaultDomainTag, "domain tag binding commitments and draws")

	rootCmd.AddCommand(
		newServeCmd(v),
		newSimulateCmd(v),
		newAuditCmd(v),
	)
	return rootCmd
}

func initConfig(v *viper.Viper, cmd *cobra.Command) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if cfg := v.GetString(flagConfig); cfg != "" {
		v.SetConfigFile(cfg)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfg, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(log.NewTMLogger(log.NewSyncWriter(w)), opt), nil
}
