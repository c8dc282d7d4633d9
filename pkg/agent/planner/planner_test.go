package planner

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// slowProvider blocks until the per-call context expires for the first
// hangAttempts calls, then answers with response.
type slowProvider struct {
	hangAttempts int
	response     string
	attempts     int
}

func (s *slowProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.Generate(ctx, "", options...)
}

func (s *slowProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.attempts++
	if s.attempts <= s.hangAttempts {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.response, nil
}

func newTestPlanner(provider llm.LLMProvider, timeout time.Duration) *Planner {
	return NewPlanner(provider, timeout, zap.NewNop(), log.New(os.Stderr, "", 0))
}

func TestPlanRetriesAfterTimeout(t *testing.T) {
	provider := &slowProvider{
		hangAttempts: 1,
		response:     `{"reply": "Refunds take five business days.", "tool_requests": []}`,
	}
	p := newTestPlanner(provider, 30*time.Millisecond)

	plan, err := p.Plan(context.Background(), Input{Query: "how long do refunds take?"})

	assert.NoError(t, err)
	assert.Equal(t, 2, provider.attempts, "a timed-out attempt must leave budget for the retry")
	assert.Equal(t, "Refunds take five business days.", plan.Reply)
	assert.Empty(t, plan.ToolRequests)
}

func TestPlanFailsAfterRetryBudget(t *testing.T) {
	provider := &slowProvider{hangAttempts: 10}
	p := newTestPlanner(provider, 30*time.Millisecond)

	plan, err := p.Plan(context.Background(), Input{Query: "anyone there?"})

	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, agent.ErrModelUnavailable))
	assert.Equal(t, 2, provider.attempts, "exactly one retry, then give up")
}

func TestPlanDegradesOnUnparseableReply(t *testing.T) {
	provider := &slowProvider{response: "I could not produce JSON, sorry."}
	p := newTestPlanner(provider, time.Second)

	plan, err := p.Plan(context.Background(), Input{Query: "hello"})

	assert.NoError(t, err)
	assert.Equal(t, "I could not produce JSON, sorry.", plan.Reply)
	assert.Empty(t, plan.ToolRequests)
}
