package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gangov/vrf-poker-activity/internal/commitment"
	"github.com/gangov/vrf-poker-activity/internal/round"
	"github.com/gangov/vrf-poker-activity/internal/vrf"
)

const (
	flagPubKey     = "pubkey"
	flagCommitment = "commitment"
)

func newAuditCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <transcript.json|->",
		Short: "Audit a round transcript from public data only",
		Long: `audit re-checks every commitment, the seed, every draw and the winner of a
transcript. With --pubkey it also requires that key to be one of the players,
and with --commitment that its recorded commitment is the given digest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), v.GetString(flagLogLevel))
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var tr round.Transcript
			if err := json.NewDecoder(in).Decode(&tr); err != nil {
				return fmt.Errorf("decode transcript: %w", err)
			}

			rep, err := round.Audit(&tr)
			if err != nil {
				logger.Error("audit failed", "round", tr.RoundID, "err", err)
				return err
			}
			logger.Info("audit passed", "round", rep.RoundID, "winner", rep.Winner, "card", rep.Cards[rep.Winner].String())

			if hexKey := v.GetString(flagPubKey); hexKey != "" {
				pk, err := vrf.PublicKeyFromHex(hexKey)
				if err != nil {
					return err
				}
				var d commitment.Digest
				if hexDigest := v.GetString(flagCommitment); hexDigest != "" {
					if d, err = commitment.DigestFromHex(hexDigest); err != nil {
						return err
					}
				}
				idx, err := tr.Includes(pk, d)
				if err != nil {
					logger.Error("player check failed", "round", rep.RoundID, "pubkey", pk.String(), "err", err)
					return err
				}
				logger.Info("player included", "round", rep.RoundID, "player", idx)
			} else if v.GetString(flagCommitment) != "" {
				return fmt.Errorf("--%s requires --%s", flagCommitment, flagPubKey)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		},
	}
	cmd.Flags().String(flagPubKey, "", "hex public key that must appear among the players")
	cmd.Flags().String(flagCommitment, "", "hex commitment expected for --pubkey")
	return cmd
}
