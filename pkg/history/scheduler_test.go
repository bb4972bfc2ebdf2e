package history

import (
	"context"
	"testing"
	"time"

	"mercator-hq/cadence/pkg/clock"
	"mercator-hq/cadence/pkg/config"
)

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		maxAge      time.Duration
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			maxAge:      24 * time.Hour,
			wantRunning: true,
		},
		{
			name:        "descriptor schedule",
			schedule:    "@hourly",
			maxAge:      time.Hour,
			wantRunning: true,
		},
		{
			name:        "empty schedule - no error, not running",
			schedule:    "",
			maxAge:      time.Hour,
			wantRunning: false,
		},
		{
			name:        "zero max age - no error, not running",
			schedule:    "0 3 * * *",
			wantRunning: false,
		},
		{
			name:      "invalid schedule",
			schedule:  "invalid cron",
			maxAge:    time.Hour,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := NewScheduler(NewMemoryStore(), config.RetentionConfig{
				MaxAge:   tt.maxAge,
				Schedule: tt.schedule,
			}, nil)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := scheduler.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}

			if scheduler.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", scheduler.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := scheduler.NextRun()
				if next == nil {
					t.Error("NextRun() returned nil for running scheduler")
				} else if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, expected a future time", next)
				}
			} else if scheduler.NextRun() != nil {
				t.Error("expected no next run for idle scheduler")
			}

			scheduler.Stop()
			if scheduler.IsRunning() {
				t.Error("expected scheduler to be stopped")
			}
		})
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	scheduler := NewScheduler(NewMemoryStore(), config.RetentionConfig{
		MaxAge:   time.Hour,
		Schedule: "@daily",
	}, nil)
	ctx := context.Background()

	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer scheduler.Stop()

	if err := scheduler.Start(ctx); err == nil {
		t.Error("expected error starting a running scheduler")
	}
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	scheduler := NewScheduler(NewMemoryStore(), config.RetentionConfig{
		MaxAge:   time.Hour,
		Schedule: "@daily",
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	if err := scheduler.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for scheduler.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if scheduler.IsRunning() {
		t.Error("expected scheduler to stop after context cancellation")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	now := base.Add(10 * time.Hour)
	orig := clock.NowFunc
	clock.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { clock.NowFunc = orig })

	ctx := context.Background()
	store := NewMemoryStore()
	for _, r := range []*Run{
		sampleRun("ancient", "poll", 0),
		sampleRun("stale", "poll", 7*time.Hour),
		sampleRun("fresh", "poll", 9*time.Hour),
	} {
		if err := store.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	scheduler := NewScheduler(store, config.RetentionConfig{MaxAge: 2 * time.Hour}, nil)
	deleted, err := scheduler.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("expected fresh run to remain, got %v", err)
	}
}

func TestScheduler_RunOnceKeepsEverythingWithoutMaxAge(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Save(ctx, sampleRun("old", "poll", 0)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	deleted, err := NewScheduler(store, config.RetentionConfig{}, nil).RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected nothing deleted, got %d", deleted)
	}
}
