package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gangov/vrf-poker-activity/internal/entropy"
	"github.com/gangov/vrf-poker-activity/internal/round"
)

const (
	flagPlayers  = "players"
	flagSeed     = "seed"
	flagParallel = "parallel"
	flagRoundID  = "round-id"
)

func newSimulateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play one local round and print its public transcript",
		Long: `simulate registers the requested number of players, runs commit, reveal,
draw, resolve and verify, then prints the transcript as JSON. With --seed the
keys and committed values are derived deterministically from the seed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(flagLogLevel))
			if err != nil {
				return err
			}
			n := v.GetInt(flagPlayers)
			if n < 1 {
				return fmt.Errorf("--%s must be at least 1", flagPlayers)
			}

			newSource := func(label string) (entropy.Source, error) {
				seed := v.GetString(flagSeed)
				if seed == "" {
					return entropy.Crypto(), nil
				}
				return entropy.NewDeterministic([]byte(seed + "|" + label))
			}

			opts := []round.Option{
				round.WithDomainTag([]byte(v.GetString(flagDomainTag))),
				round.WithLogger(logger.With("module", "round")),
			}
			if s := v.GetString(flagRoundID); s != "" {
				id, err := uuid.Parse(s)
				if err != nil {
					return fmt.Errorf("--%s: %w", flagRoundID, err)
				}
				opts = append(opts, round.WithID(id))
			}
			r := round.New(opts...)
			for i := 0; i < n; i++ {
				src, err := newSource(fmt.Sprintf("player-%d", i))
				if err != nil {
					return err
				}
				if _, err := r.NewPlayer(src); err != nil {
					return err
				}
			}
			src, err := newSource("commit")
			if err != nil {
				return err
			}
			if _, err := round.NewAggregator(src).Run(r); err != nil {
				return err
			}
			if err := (&round.Drawer{Parallel: v.GetBool(flagParallel)}).Draw(cmd.Context(), r); err != nil {
				return err
			}
			if _, _, err := round.Resolve(r); err != nil {
				return err
			}
			ok, err := r.VerifyWinner()
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("winner claim did not verify")
			}

			tr, err := r.Transcript()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tr)
		},
	}
	cmd.Flags().Int(flagPlayers, 4, "number of players")
	cmd.Flags().String(flagSeed, "", "derive keys and contributions from this seed (testing only)")
	cmd.Flags().Bool(flagParallel, false, "draw each player's card in its own goroutine")
	cmd.Flags().String(flagRoundID, "", "round id (uuid); random when empty")
	return cmd
}
