package scheduler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestAddJob(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	if err := s.AddJob("bad", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
	if err := s.AddJob("sweep", "0 4 * * *", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if s.Jobs() != 1 {
		t.Fatalf("want 1 job, got %d", s.Jobs())
	}
	s.Start()
	s.Stop()
}

func TestRunPassesContextAndSurvivesErrors(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	calls := 0
	s.run("ok", func(ctx context.Context) error {
		calls++
		if ctx.Err() != nil {
			t.Fatalf("context cancelled before stop")
		}
		return nil
	})
	s.run("fail", func(context.Context) error {
		calls++
		return errors.New("boom")
	})
	if calls != 2 {
		t.Fatalf("want 2 calls, got %d", calls)
	}
	s.Stop()
	if s.ctx.Err() == nil {
		t.Fatalf("stop must cancel job context")
	}
}
