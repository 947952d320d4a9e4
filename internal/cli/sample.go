package cli

import (
	"fmt"
	"strconv"

	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Inspect sample categories",
}

var sampleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sample categories with their identities",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, s := range pisces.AllSamples() {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-22s %s\n", s.ID(), s.Tag(), s.Name())
		}
		return nil
	},
}

var sampleShowCmd = &cobra.Command{
	Use:   "show <id|tag>",
	Short: "Show a category's classifiers and its signal/background channels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := parseSample(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Sample %s (id %d)\n", s.Tag(), s.ID())
		fmt.Fprintf(out, "  name:  %s\n", s.Name())
		fmt.Fprintf(out, "  latex: %s\n", s.LatexName())
		fmt.Fprintf(out, "  nc=%t numu=%t nue=%t fhc=%t rhc=%t nd=%t fd=%t\n",
			s.IsNC(), s.IsNumu(), s.IsNue(), s.IsFHC(), s.IsRHC(), s.IsND(), s.IsFD())

		fmt.Fprintln(out, "  signal:")
		printChannelNames(cmd, s.SignalChannels())
		fmt.Fprintln(out, "  background:")
		printChannelNames(cmd, s.BackgroundChannels())
		return nil
	},
}

func printChannelNames(cmd *cobra.Command, cs []pisces.OscChannel) {
	if len(cs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "    (none)")
		return
	}
	for _, c := range cs {
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", c.Name())
	}
}

// parseSample accepts either a numeric identity or a sel_pol_det tag.
func parseSample(arg string) (*pisces.Sample, error) {
	if id, err := strconv.ParseUint(arg, 10, 32); err == nil {
		return pisces.SampleFromID(uint32(id))
	}
	c, err := pisces.ParseTag(arg)
	if err != nil {
		return nil, err
	}
	return pisces.NewSample(c), nil
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List the oscillation channel vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		far, _ := cmd.Flags().GetBool("far")
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s %-6s %-7s %-12s %-9s %5s %5s\n", "NAME", "CURR", "SIGN", "FLAV", "CONFIG", "FROM", "TO")
		for _, c := range pisces.AllChannels(far) {
			fmt.Fprintf(out, "%-16s %-6s %-7s %-12s %-9s %5d %5d\n",
				c.Name(), c.Curr(), c.Sign(), c.Flav(), c.Config(), c.From(), c.To())
		}
		return nil
	},
}

var ensembleCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Encode and decode ensemble tokens",
}

var ensembleEncodeCmd = &cobra.Command{
	Use:   "encode <id|tag>...",
	Short: "Build the ensemble token for an ordered list of samples",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples := make([]*pisces.Sample, 0, len(args))
		for _, a := range args {
			s, err := parseSample(a)
			if err != nil {
				return err
			}
			samples = append(samples, s)
		}
		token, err := pisces.SamplesEnsembleID(samples)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var ensembleDecodeCmd = &cobra.Command{
	Use:   "decode <token>",
	Short: "List the samples named by an ensemble token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := pisces.SamplesFromEnsembleID(args[0])
		if err != nil {
			return err
		}
		for _, s := range samples {
			fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", s.ID(), s.Tag())
		}
		return nil
	},
}

func init() {
	sampleCmd.AddCommand(sampleListCmd)
	sampleCmd.AddCommand(sampleShowCmd)

	channelsCmd.Flags().Bool("far", false, "include far-detector-only channels")

	ensembleCmd.AddCommand(ensembleEncodeCmd)
	ensembleCmd.AddCommand(ensembleDecodeCmd)
}
