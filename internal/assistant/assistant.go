// Package assistant answers financial questions by sending the user's full
// record set plus their question to a chat completion model.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"daftar/internal/core"
)

const systemPrompt = `You are a financial assistant for a small-business accounting dashboard.
You receive the owner's complete records as JSON: transactions, checks, inventory and invoices, all amounts in decimal currency units.
Answer the question using only those records. Be concise and concrete; cite amounts and dates from the data.
If the records cannot answer the question, say so instead of guessing.`

const (
	DefaultTimeout   = 30 * time.Second
	defaultMaxTokens = 1000
)

// Completer is the completion surface the assistant depends on. The OpenAI
// client satisfies it; tests substitute a fake.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// RecordSource provides the records serialized into the model context.
type RecordSource interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListChecks(ctx context.Context) ([]core.Check, error)
	ListProducts(ctx context.Context) ([]core.Product, error)
	ListInvoices(ctx context.Context) ([]core.Invoice, error)
}

// Assistant serializes questions: only one completion is in flight at a
// time, and a second question is rejected with ErrBusy rather than queued.
type Assistant struct {
	completer Completer
	records   RecordSource
	model     string
	locale    core.Locale
	timeout   time.Duration

	slot chan struct{}
}

// New builds an assistant. A nil completer produces an assistant that
// answers every question with ErrNotConfigured.
func New(completer Completer, records RecordSource, model string, locale core.Locale, timeout time.Duration) *Assistant {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	slot := make(chan struct{}, 1)
	slot <- struct{}{}
	return &Assistant{
		completer: completer,
		records:   records,
		model:     model,
		locale:    locale,
		timeout:   timeout,
		slot:      slot,
	}
}

// NewOpenAIClient builds the production completer from an API key.
func NewOpenAIClient(apiKey string) *openai.Client {
	return openai.NewClient(apiKey)
}

// Configured reports whether a completer is wired in.
func (a *Assistant) Configured() bool {
	return a.completer != nil
}

// Ask sends the question with the full record context and returns the
// model's answer. Returns ErrNotConfigured without an API client, ErrBusy
// when a question is already in flight, and ErrCallFailed when the upstream
// call does not produce an answer.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	if !a.Configured() {
		return "", ErrNotConfigured
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", core.ErrValidation)
	}

	select {
	case <-a.slot:
	default:
		return "", ErrBusy
	}
	defer func() { a.slot <- struct{}{} }()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	payload, err := a.buildPayload(ctx)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := a.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("RECORDS:\n%s\n\nQUESTION:\n%s", payload, question),
			},
		},
		Temperature: 0.2,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "Assistant completion failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrCallFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices", ErrCallFailed)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", ErrCallFailed)
	}

	slog.InfoContext(ctx, "Assistant answered",
		"model", a.model,
		"duration", time.Since(start).Round(time.Millisecond))

	return answer, nil
}

func (a *Assistant) buildPayload(ctx context.Context) (string, error) {
	txs, err := a.records.ListTransactions(ctx)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	checks, err := a.records.ListChecks(ctx)
	if err != nil {
		return "", fmt.Errorf("list checks: %w", err)
	}
	products, err := a.records.ListProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}
	invoices, err := a.records.ListInvoices(ctx)
	if err != nil {
		return "", fmt.Errorf("list invoices: %w", err)
	}

	return BuildContext(time.Now(), a.locale, txs, checks, products, invoices)
}
