package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sbenjam1n/pisces/internal/ensemble"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testEnsemble = `
systs: [flux_norm]
samples:
  - selection: nuesel
    polarity: fhc
    detector: fardet
    axis: {var: reco_energy, bins: 2, min: 0, max: 4}
    pot: 1.0e21
    livetime: 0
    components:
      cc_nu_numutonue: {nominal: [4, 8]}
      cc_nu_numutonumu: {nominal: [1, 1]}
      nc: {nominal: [2, 2], slopes: {flux_norm: [1, 0]}}
  - selection: numusel
    polarity: rhc
    detector: neardet
    axis: {var: true_energy, edges: [0, 1, 3]}
    data: {values: [5, 6], pot: 2.0e20, livetime: 10}
`

func loadEnsemble(t *testing.T) *ensemble.Ensemble {
	t.Helper()
	e, err := ensemble.Parse([]byte(testEnsemble))
	require.NoError(t, err)
	return e
}

func TestFingerprint(t *testing.T) {
	a := JobMessage{JobID: "a", Ensemble: "id_81", Weights: map[string]float64{"numutonue": 0.5, "numutonumu": 0.9}}
	b := JobMessage{JobID: "b", Ensemble: "id_81", Weights: map[string]float64{"numutonumu": 0.9, "numutonue": 0.5}}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "job id and map order are ignored")

	c := a
	c.Ensemble = "id_81_4"
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	d := a
	d.Shifts = map[string]float64{"numutonue": 0.5}
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint(), "weights and shifts hash separately")
}

func TestMessagesJSON(t *testing.T) {
	raw, err := json.Marshal(ResultMessage{JobID: "j", Sample: "nuesel_fhc_fardet", Signal: []float64{1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"j","ensemble":"","sample":"nuesel_fhc_fardet","sample_id":0,"pot":0,"signal":[1]}`, string(raw))
}

func TestWorkerProcess(t *testing.T) {
	w := NewWorker(nil, loadEnsemble(t), "w1", nil)

	results, err := w.Process(JobMessage{
		JobID:    "j1",
		Ensemble: "id_81_4",
		Weights:  map[string]float64{"numutonue": 0.5},
		Shifts:   map[string]float64{"flux_norm": 2},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	want := ResultMessage{
		JobID:      "j1",
		Ensemble:   "id_81_4",
		Sample:     "nuesel_fhc_fardet",
		SampleID:   81,
		POT:        1.0e21,
		Signal:     []float64{2, 4},
		Background: []float64{5, 3},
	}
	if diff := cmp.Diff(want, results[0]); diff != "" {
		t.Errorf("far-detector result mismatch (-want +got):\n%s", diff)
	}

	nd := results[1]
	assert.Equal(t, "numusel_rhc_neardet", nd.Sample)
	assert.NotEmpty(t, nd.Error, "sample without a prediction reports an error")
	assert.Nil(t, nd.Signal)
}

func TestWorkerProcessRejectsBadJobs(t *testing.T) {
	w := NewWorker(nil, loadEnsemble(t), "w1", nil)

	tests := []struct {
		name string
		job  JobMessage
	}{
		{"malformed token", JobMessage{Ensemble: "81"}},
		{"unconfigured sample", JobMessage{Ensemble: "id_0"}},
		{"unknown transition", JobMessage{Ensemble: "id_81", Weights: map[string]float64{"x": 1}}},
		{"unknown syst", JobMessage{Ensemble: "id_81", Shifts: map[string]float64{"x": 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Process(tt.job)
			assert.Error(t, err)
		})
	}
}

// fakeRead is one canned ReadJob outcome.
type fakeRead struct {
	job   *JobMessage
	msgID string
	err   error
}

// fakeJobs replays canned reads, then blocks like an idle stream until the
// context is cancelled.
type fakeJobs struct {
	mu      sync.Mutex
	pending []fakeRead
	results []ResultMessage
	acked   []string
}

func (f *fakeJobs) EnsureStreams(context.Context) error { return nil }

func (f *fakeJobs) ReadJob(ctx context.Context, _ string) (*JobMessage, string, error) {
	f.mu.Lock()
	if len(f.pending) == 0 {
		f.mu.Unlock()
		<-ctx.Done()
		return nil, "", ctx.Err()
	}
	r := f.pending[0]
	f.pending = f.pending[1:]
	f.mu.Unlock()
	return r.job, r.msgID, r.err
}

func (f *fakeJobs) AckJob(_ context.Context, msgID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, msgID)
	return nil
}

func (f *fakeJobs) PushResult(_ context.Context, msg ResultMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, msg)
	return "r", nil
}

func (f *fakeJobs) snapshot() ([]ResultMessage, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ResultMessage(nil), f.results...), append([]string(nil), f.acked...)
}

func TestWorkerRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	decodeErr := errors.New("read job: decode 2-0: unexpected end of JSON input")
	jobs := &fakeJobs{pending: []fakeRead{
		{job: &JobMessage{JobID: "ok", Ensemble: "id_81"}, msgID: "1-0"},
		{msgID: "2-0", err: decodeErr},
		{err: errors.New("connection reset")},
		{job: &JobMessage{JobID: "bad", Ensemble: "nope"}, msgID: "3-0"},
	}}

	w := NewWorker(jobs, loadEnsemble(t), "w1", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		_, acked := jobs.snapshot()
		return len(acked) == 3
	}, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	results, acked := jobs.snapshot()
	assert.Equal(t, []string{"1-0", "2-0", "3-0"}, acked, "reads without a message ID are not acked")
	require.Len(t, results, 3)

	assert.Equal(t, "ok", results[0].JobID)
	assert.Equal(t, []float64{4, 8}, results[0].Signal, "default weights are 1")
	assert.Equal(t, []float64{3, 3}, results[0].Background)

	assert.Equal(t, "2-0", results[1].JobID, "undecodable jobs are answered under their stream ID")
	assert.Equal(t, decodeErr.Error(), results[1].Error)

	assert.Equal(t, "bad", results[2].JobID)
	assert.NotEmpty(t, results[2].Error)
}
