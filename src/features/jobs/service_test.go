package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/absra47/song-managment/src/features/config"
)

// scriptedTask is a Task whose Execute runs a test-provided function.
type scriptedTask struct {
	keys    []string
	execute func(ctx context.Context) (map[string]any, error)
}

func (t *scriptedTask) MetadataKeys() []string { return t.keys }
func (t *scriptedTask) Execute(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error) {
	return t.execute(ctx)
}
func (t *scriptedTask) Cleanup(job *Job) error { return nil }

// progressTask is a Task whose Execute can drive progress updates.
type progressTask struct {
	execute func(ctx context.Context, progress func(int, string)) (map[string]any, error)
}

func (t *progressTask) MetadataKeys() []string { return nil }
func (t *progressTask) Execute(ctx context.Context, job *Job, progressUpdater func(int, string)) (map[string]any, error) {
	return t.execute(ctx, progressUpdater)
}
func (t *progressTask) Cleanup(job *Job) error { return nil }

// recordingNotifier collects terminal jobs.
type recordingNotifier struct {
	mu   sync.Mutex
	jobs []*Job
}

func (n *recordingNotifier) NotifyJobDone(job *Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func newTestService() *Service {
	return NewService(&config.Jobs{Log: false})
}

func waitForTerminal(t *testing.T, service *Service, jobID string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := service.GetJob(jobID)
		if ok && (job.Status == JobStatusCompleted || job.Status == JobStatusFailed || job.Status == JobStatusCancelled) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", jobID)
	return nil
}

func TestStartJob_RunsToCompletion(t *testing.T) {
	service := newTestService()
	done := make(chan struct{})
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) {
			close(done)
			return map[string]any{"result": "ok"}, nil
		},
	}))

	jobID, err := service.StartJob("test", "test job", nil)
	if err != nil {
		t.Fatalf("failed to start job: %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never ran")
	}

	job := waitForTerminal(t, service, jobID)
	if job.Status != JobStatusCompleted {
		t.Errorf("expected completed, got %s (%s)", job.Status, job.Message)
	}
	if job.Progress != 100 {
		t.Errorf("expected progress 100, got %d", job.Progress)
	}
	if job.Metadata["result"] != "ok" {
		t.Errorf("expected task stats merged into metadata, got %v", job.Metadata)
	}
}

func TestStartJob_FailureIsTerminalAndSilent(t *testing.T) {
	service := newTestService()
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) {
			return nil, errors.New("boom")
		},
	}))

	jobID, err := service.StartJob("test", "failing job", nil)
	if err != nil {
		t.Fatalf("StartJob itself must not fail: %v", err)
	}

	job := waitForTerminal(t, service, jobID)
	if job.Status != JobStatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
	if job.Error != "boom" {
		t.Errorf("expected recorded error, got %q", job.Error)
	}
}

func TestStartJob_MissingMetadataKeyFails(t *testing.T) {
	service := newTestService()
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		keys: []string{"song_id"},
		execute: func(ctx context.Context) (map[string]any, error) {
			t.Error("task must not execute without its metadata keys")
			return nil, nil
		},
	}))

	jobID, _ := service.StartJob("test", "job", nil)
	job := waitForTerminal(t, service, jobID)
	if job.Status != JobStatusFailed {
		t.Errorf("expected failed, got %s", job.Status)
	}
}

func TestJobsOfSameTypeRunConcurrently(t *testing.T) {
	service := newTestService()

	var mu sync.Mutex
	running := 0
	maxRunning := 0
	release := make(chan struct{})

	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) {
			mu.Lock()
			running++
			if running > maxRunning {
				maxRunning = running
			}
			mu.Unlock()
			<-release
			mu.Lock()
			running--
			mu.Unlock()
			return nil, nil
		},
	}))

	first, _ := service.StartJob("test", "one", nil)
	second, _ := service.StartJob("test", "two", nil)

	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		both := maxRunning >= 2
		mu.Unlock()
		if both {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("jobs of the same type did not overlap")
		}
		time.Sleep(10 * time.Millisecond)
	}
	close(release)

	waitForTerminal(t, service, first)
	waitForTerminal(t, service, second)
}

func TestNotifierReceivesTerminalJob(t *testing.T) {
	service := newTestService()
	notifier := &recordingNotifier{}
	service.RegisterNotifier(notifier)
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) { return nil, nil },
	}))

	jobID, _ := service.StartJob("test", "job", nil)
	waitForTerminal(t, service, jobID)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		notifier.mu.Lock()
		count := len(notifier.jobs)
		notifier.mu.Unlock()
		if count == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("notifier was never invoked")
}

func TestReadersGetSnapshotsWhileJobRuns(t *testing.T) {
	service := newTestService()
	release := make(chan struct{})
	service.RegisterHandler("test", NewBaseTaskHandler(&progressTask{
		execute: func(ctx context.Context, progress func(int, string)) (map[string]any, error) {
			for i := 1; i <= 50; i++ {
				progress(i, "working")
			}
			<-release
			return map[string]any{"result": "ok"}, nil
		},
	}))

	jobID, err := service.StartJob("test", "busy job", map[string]any{"seed": "value"})
	if err != nil {
		t.Fatalf("failed to start job: %v", err)
	}

	// Hammer the read side while the job mutates its record.
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if job, ok := service.GetJob(jobID); ok {
					_ = job.Status
					_ = job.Progress
					_ = job.Message
					_ = job.Metadata["seed"]
				}
				for _, job := range service.GetJobs() {
					_ = job.Status
					_ = job.Error
				}
			}
		}()
	}
	wg.Wait()
	close(release)

	snapshot := waitForTerminal(t, service, jobID)
	if snapshot.Status != JobStatusCompleted {
		t.Fatalf("expected completed, got %s", snapshot.Status)
	}

	// Mutating a returned job must not touch the stored record.
	snapshot.Status = JobStatusFailed
	snapshot.Metadata["result"] = "tampered"

	job, ok := service.GetJob(jobID)
	if !ok {
		t.Fatal("job disappeared")
	}
	if job.Status != JobStatusCompleted {
		t.Errorf("stored status changed through a snapshot, got %s", job.Status)
	}
	if job.Metadata["result"] != "ok" {
		t.Errorf("stored metadata changed through a snapshot, got %v", job.Metadata["result"])
	}
}

func TestCancelJobAfterCompletionIsRejected(t *testing.T) {
	service := newTestService()
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) { return nil, nil },
	}))

	jobID, _ := service.StartJob("test", "job", nil)
	waitForTerminal(t, service, jobID)

	if err := service.CancelJob(jobID); !errors.Is(err, ErrJobFinished) {
		t.Fatalf("expected ErrJobFinished, got %v", err)
	}

	job, _ := service.GetJob(jobID)
	if job.Status != JobStatusCompleted {
		t.Errorf("cancel must not rewrite a terminal state, got %s", job.Status)
	}
}

func TestCancelUnknownJob(t *testing.T) {
	service := newTestService()

	if err := service.CancelJob("no-such-job"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestCleanupOldJobs(t *testing.T) {
	service := newTestService()
	service.RegisterHandler("test", NewBaseTaskHandler(&scriptedTask{
		execute: func(ctx context.Context) (map[string]any, error) { return nil, nil },
	}))

	jobID, _ := service.StartJob("test", "job", nil)
	waitForTerminal(t, service, jobID)

	service.CleanupOldJobs(0)
	if _, exists := service.GetJob(jobID); exists {
		t.Error("expected the finished job to be cleaned up")
	}
}
