package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/sbenjam1n/pisces/internal/queue"
	"github.com/sbenjam1n/pisces/internal/validator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict [token]",
	Short: "Predict signal and background for each sample of the ensemble",
	Long: `Predicts every configured sample, or only those named by an ensemble
token, and prints the interior bins of signal and background at each
sample's exposure.

  pisces predict --weights numutonue=0.05,numutonumu=0.4 --shift xsec_ma=1
  pisces predict id_81_4 --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := jobFromFlags(cmd, args)
		if err != nil {
			return err
		}
		e, err := loadEnsemble()
		if err != nil {
			return err
		}
		if job.Ensemble == "" {
			if job.Ensemble, err = e.ID(); err != nil {
				return err
			}
		}

		results, err := queue.NewWorker(nil, e, "cli", logger).Process(job)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(out, "%-22s ERROR %s\n", r.Sample, r.Error)
				continue
			}
			fmt.Fprintf(out, "%-22s pot=%g\n", r.Sample, r.POT)
			fmt.Fprintf(out, "  signal:     %v\n", r.Signal)
			fmt.Fprintf(out, "  background: %v\n", r.Background)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run Tier 0 + Tier 1 validation over the ensemble file",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnsemble()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		passed, failed := 0, 0
		for _, result := range validator.ValidateAll(e.Samples) {
			if result.Passed {
				passed++
				logger.Debug("sample valid", zap.String("sample", result.Sample))
				continue
			}
			failed++
			fmt.Fprintf(out, "FAIL %s (tier %d): %s\n", result.Sample, result.Tier, result.Message)
			for _, d := range result.Details {
				if !d.Passed && d.Fix != "" {
					fmt.Fprintf(out, "  Fix: %s\n", d.Fix)
				}
			}
		}

		fmt.Fprintf(out, "\n%d passed, %d failed\n", passed, failed)
		if failed > 0 {
			return fmt.Errorf("%d samples failed validation", failed)
		}
		return nil
	},
}

func jobFromFlags(cmd *cobra.Command, args []string) (queue.JobMessage, error) {
	var job queue.JobMessage
	if len(args) > 0 {
		job.Ensemble = args[0]
	}
	weights, _ := cmd.Flags().GetStringToString("weights")
	shifts, _ := cmd.Flags().GetStringToString("shift")

	var err error
	if job.Weights, err = parseFloats("weight", weights); err != nil {
		return job, err
	}
	if job.Shifts, err = parseFloats("shift", shifts); err != nil {
		return job, err
	}
	return job, nil
}

func parseFloats(what string, raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]float64, len(raw))
	for _, k := range keys {
		v, err := strconv.ParseFloat(raw[k], 64)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", what, k, err)
		}
		out[k] = v
	}
	return out, nil
}

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().StringToString("weights", nil, "oscillation weight per transition (numutonue=0.05,...)")
	cmd.Flags().StringToString("shift", nil, "systematic shift in sigma (name=value,...)")
}

func init() {
	addJobFlags(predictCmd)
	predictCmd.Flags().Bool("json", false, "print results as JSON")
}
