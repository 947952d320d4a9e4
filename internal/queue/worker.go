package queue

import (
	"context"
	"fmt"

	"github.com/sbenjam1n/pisces/internal/ensemble"
	"github.com/sbenjam1n/pisces/internal/pisces"
	"github.com/sbenjam1n/pisces/internal/predict"
	"github.com/sbenjam1n/pisces/internal/spectrum"
	"github.com/sbenjam1n/pisces/internal/syst"
	"go.uber.org/zap"
)

// Jobs is the part of Queue a Worker consumes.
type Jobs interface {
	EnsureStreams(ctx context.Context) error
	ReadJob(ctx context.Context, consumer string) (*JobMessage, string, error)
	AckJob(ctx context.Context, msgID string) error
	PushResult(ctx context.Context, msg ResultMessage) (string, error)
}

// Worker answers prediction jobs from a configured ensemble.
type Worker struct {
	jobs     Jobs
	ens      *ensemble.Ensemble
	consumer string
	log      *zap.Logger
}

// NewWorker creates a worker. A nil logger discards output.
func NewWorker(jobs Jobs, ens *ensemble.Ensemble, consumer string, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{jobs: jobs, ens: ens, consumer: consumer, log: log}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.jobs.EnsureStreams(ctx); err != nil {
		return err
	}

	for {
		job, msgID, err := w.jobs.ReadJob(ctx, w.consumer)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warn("job read failed", zap.String("msg_id", msgID), zap.Error(err))
			if msgID != "" {
				w.rejectUnreadable(ctx, msgID, err)
			}
			continue
		}

		log := w.log.With(zap.String("job_id", job.JobID), zap.String("ensemble", job.Ensemble))
		results, err := w.Process(*job)
		if err != nil {
			log.Error("job rejected", zap.Error(err))
			results = []ResultMessage{{JobID: job.JobID, Ensemble: job.Ensemble, Error: err.Error()}}
		}
		for _, r := range results {
			if _, err := w.jobs.PushResult(ctx, r); err != nil {
				log.Error("push result failed", zap.String("sample", r.Sample), zap.Error(err))
			}
		}
		log.Info("job done", zap.Int("results", len(results)))

		if err := w.jobs.AckJob(ctx, msgID); err != nil {
			log.Warn("ack failed", zap.Error(err))
		}
	}
}

// rejectUnreadable answers a job whose payload could not be decoded. The
// job ID is unknown, so the stream message ID stands in for it.
func (w *Worker) rejectUnreadable(ctx context.Context, msgID string, cause error) {
	res := ResultMessage{JobID: msgID, Error: cause.Error()}
	if _, err := w.jobs.PushResult(ctx, res); err != nil {
		w.log.Error("push result failed", zap.String("msg_id", msgID), zap.Error(err))
	}
	if err := w.jobs.AckJob(ctx, msgID); err != nil {
		w.log.Warn("ack failed", zap.String("msg_id", msgID), zap.Error(err))
	}
}

// Process predicts signal and background for each sample of the job's
// ensemble. Per-sample failures are reported in the result; malformed
// jobs return an error.
func (w *Worker) Process(job JobMessage) ([]ResultMessage, error) {
	samples, err := w.ens.Select(job.Ensemble)
	if err != nil {
		return nil, err
	}
	calc, err := ensemble.Calculator(job.Weights)
	if err != nil {
		return nil, err
	}
	shifts, err := w.ens.Shifts(job.Shifts)
	if err != nil {
		return nil, err
	}

	out := make([]ResultMessage, 0, len(samples))
	for _, s := range samples {
		r := ResultMessage{JobID: job.JobID, Ensemble: job.Ensemble, Sample: s.Tag(), SampleID: s.ID()}
		if err := fillResult(&r, s, calc, shifts); err != nil {
			w.log.Debug("sample prediction failed", zap.String("sample", s.Tag()), zap.Error(err))
			r.Error = err.Error()
		}
		out = append(out, r)
	}
	return out, nil
}

func fillResult(r *ResultMessage, s *pisces.Sample, calc predict.Calculator, shifts syst.Shifts) error {
	pot, err := s.POT()
	if err != nil {
		return err
	}
	sig, err := s.PredictSignal(calc, shifts)
	if err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	bkg, err := s.PredictBackground(calc, shifts)
	if err != nil {
		return fmt.Errorf("background: %w", err)
	}
	r.POT = pot
	r.Signal = interior(sig, pot)
	r.Background = interior(bkg, pot)
	return nil
}

func interior(s spectrum.Spectrum, pot float64) []float64 {
	if s.NDimensions() == 0 {
		return nil
	}
	return s.Interior(pot)
}
