package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"daftar/internal/core"
	"daftar/internal/store"
)

type fakeCompleter struct {
	mu      sync.Mutex
	answer  string
	err     error
	gotReq  openai.ChatCompletionRequest
	release chan struct{} // when set, the call blocks until closed
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.mu.Lock()
	f.gotReq = req
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return openai.ChatCompletionResponse{}, ctx.Err()
		}
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.answer}},
		},
	}, nil
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New()
	ctx := context.Background()
	_, err := s.AddTransaction(ctx, core.Transaction{
		Type:        core.Income,
		Category:    "sales",
		Description: "march sales",
		Amount:      core.Money{Cents: 500_00},
		Date:        core.NewDate(2024, time.March, 5),
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	return s
}

func TestAskNotConfigured(t *testing.T) {
	a := New(nil, seededStore(t), "gpt-4o-mini", core.LocaleEN, 0)
	if _, err := a.Ask(context.Background(), "how much did I earn?"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	a := New(&fakeCompleter{answer: "x"}, seededStore(t), "gpt-4o-mini", core.LocaleEN, 0)
	if _, err := a.Ask(context.Background(), "   "); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAskSendsRecordsAndQuestion(t *testing.T) {
	fake := &fakeCompleter{answer: "You earned 500.00 in March."}
	a := New(fake, seededStore(t), "gpt-4o-mini", core.LocaleEN, 0)

	answer, err := a.Ask(context.Background(), "how much did I earn in March?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "You earned 500.00 in March." {
		t.Fatalf("unexpected answer: %q", answer)
	}

	if len(fake.gotReq.Messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(fake.gotReq.Messages))
	}
	user := fake.gotReq.Messages[1].Content
	if !strings.Contains(user, "march sales") {
		t.Fatalf("user message should carry the records, got: %s", user)
	}
	if !strings.Contains(user, "how much did I earn in March?") {
		t.Fatalf("user message should carry the question, got: %s", user)
	}
}

func TestAskBusySlot(t *testing.T) {
	release := make(chan struct{})
	fake := &fakeCompleter{answer: "done", release: release}
	a := New(fake, seededStore(t), "gpt-4o-mini", core.LocaleEN, 5*time.Second)

	errCh := make(chan error, 1)
	go func() {
		_, err := a.Ask(context.Background(), "first question")
		errCh <- err
	}()

	// Wait until the first question holds the slot.
	deadline := time.After(2 * time.Second)
	for {
		fake.mu.Lock()
		started := len(fake.gotReq.Messages) > 0
		fake.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first question never reached the completer")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, err := a.Ask(context.Background(), "second question"); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("first question failed: %v", err)
	}

	// Slot is free again after completion.
	if _, err := a.Ask(context.Background(), "third question"); err != nil {
		t.Fatalf("third question failed: %v", err)
	}
}

func TestAskWrapsUpstreamFailure(t *testing.T) {
	fake := &fakeCompleter{err: errors.New("rate limited")}
	a := New(fake, seededStore(t), "gpt-4o-mini", core.LocaleEN, 0)
	if _, err := a.Ask(context.Background(), "anything"); !errors.Is(err, ErrCallFailed) {
		t.Fatalf("expected ErrCallFailed, got %v", err)
	}
}
