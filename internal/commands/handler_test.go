package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-newsroom/internal/commands"
)

type testMessage struct {
	fail bool
}

func (testMessage) Type() string { return "newsroom.test.message" }

func (m testMessage) Validate() error {
	if m.fail {
		return errors.New("message invalid")
	}
	return nil
}

func TestHandlerExecutesFunction(t *testing.T) {
	called := false
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := handler.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("wrapped function not invoked")
	}
}

func TestHandlerRejectsInvalidMessage(t *testing.T) {
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		t.Fatal("function must not run for invalid messages")
		return nil
	})

	err := handler.Execute(context.Background(), testMessage{fail: true})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("err = %v, want validation category", err)
	}
}

func TestHandlerTagsExecutionErrors(t *testing.T) {
	boom := errors.New("boom")
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		return boom
	})

	err := handler.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("err = %v, want command category", err)
	}
	if !errors.Is(err, boom) {
		t.Fatal("original error must stay reachable")
	}
}

func TestHandlerTagsCancellation(t *testing.T) {
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := handler.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("err = %v, want command category", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled reachable", err)
	}
}

func TestHandlerKeepsUpstreamCategories(t *testing.T) {
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		return goerrors.Wrap(errors.New("stage mismatch"), goerrors.CategoryValidation, "transition rejected")
	})

	err := handler.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("err = %v, want original validation category preserved", err)
	}
	if goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatal("already wrapped errors must not be retagged as command failures")
	}
}

func TestHandlerHonorsTimeout(t *testing.T) {
	handler := commands.NewHandler(func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	}, commands.WithTimeout[testMessage](10*time.Millisecond))

	err := handler.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
