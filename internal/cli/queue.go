package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/sbenjam1n/pisces/internal/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Queue management",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pending jobs and results in Redis",
	RunE: func(cmd *cobra.Command, args []string) error {
		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx := context.Background()
		q := queue.New(rdb)

		jobs, results, err := q.Status(ctx)
		if err != nil {
			return fmt.Errorf("queue status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Queue Status:\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  %s:    %d pending\n", queue.StreamJobs, jobs)
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d pending\n", queue.StreamResults, results)
		return nil
	},
}

var queuePushCmd = &cobra.Command{
	Use:   "push <token>",
	Short: "Queue a prediction job for an ensemble token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := jobFromFlags(cmd, args)
		if err != nil {
			return err
		}
		job.JobID, _ = cmd.Flags().GetString("job-id")
		if job.JobID == "" {
			job.JobID = uuid.NewString()
		}

		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx := context.Background()
		q := queue.New(rdb)
		if err := q.EnsureStreams(ctx); err != nil {
			return err
		}
		msgID, err := q.PushJob(ctx, job)
		if err != nil {
			return err
		}
		logger.Info("job queued",
			zap.String("job_id", job.JobID),
			zap.String("msg_id", msgID),
			zap.String("fingerprint", job.Fingerprint()))
		fmt.Fprintln(cmd.OutOrStdout(), job.JobID)
		return nil
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume prediction jobs and publish per-sample results",
	RunE: func(cmd *cobra.Command, args []string) error {
		consumer, _ := cmd.Flags().GetString("consumer")

		e, err := loadEnsemble()
		if err != nil {
			return err
		}
		rdb, err := connectRedis()
		if err != nil {
			return err
		}
		defer rdb.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("worker started", zap.String("consumer", consumer), zap.Int("samples", len(e.Samples)))
		err = queue.NewWorker(queue.New(rdb), e, consumer, logger).Run(ctx)
		if ctx.Err() != nil {
			logger.Info("worker stopped")
			return nil
		}
		return err
	},
}

func init() {
	addJobFlags(queuePushCmd)
	queuePushCmd.Flags().String("job-id", "", "job id (default random UUID)")
	queueCmd.AddCommand(queueStatusCmd)
	queueCmd.AddCommand(queuePushCmd)

	workerCmd.Flags().String("consumer", "predictor_1", "consumer name within the predictors group")
}
