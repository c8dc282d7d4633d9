package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"testing"

	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/contract"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// In-memory unit of work: only the repositories the recorder touches are
// functional.

type fakeMetricRepo struct {
	created []*entity.AgentMetric
}

func (f *fakeMetricRepo) Create(ctx context.Context, metric *entity.AgentMetric) error {
	f.created = append(f.created, metric)
	return nil
}

func (f *fakeMetricRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AgentMetric, error) {
	return f.created, nil
}

func (f *fakeMetricRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeMessageRepo struct {
	contract.TicketMessageRepository
	updatedId      uuid.UUID
	updatedMetrics []byte
}

func (f *fakeMessageRepo) UpdateMetrics(ctx context.Context, messageId uuid.UUID, metrics []byte) error {
	f.updatedId = messageId
	f.updatedMetrics = metrics
	return nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	metricRepo  *fakeMetricRepo
	messageRepo *fakeMessageRepo
}

func (f *fakeUow) AgentMetricRepository() contract.AgentMetricRepository {
	return f.metricRepo
}

func (f *fakeUow) TicketMessageRepository() contract.TicketMessageRepository {
	return f.messageRepo
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeJudge struct {
	response string
	err      error
}

func (f *fakeJudge) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeJudge) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func newTestRecorder(judge llm.LLMProvider) (*Recorder, *fakeUow) {
	uow := &fakeUow{
		metricRepo:  &fakeMetricRepo{},
		messageRepo: &fakeMessageRepo{},
	}
	recorder := NewRecorder(&fakeFactory{uow: uow}, judge, nil, log.New(os.Stderr, "", 0))
	return recorder, uow
}

func testJob() *Job {
	ticketId := uuid.New()
	return &Job{
		TraceId:   uuid.New(),
		TicketId:  &ticketId,
		MessageId: uuid.New(),
		Query:     "how long do refunds take?",
		Response:  "Refunds take five business days.",
		Context: &agent.RAGContext{
			Accuracy:     0.8,
			Relevance:    0.7,
			ContextMatch: 0.9,
		},
	}
}

func TestRecordKRA(t *testing.T) {
	recorder, uow := newTestRecorder(&fakeJudge{})

	job := testJob()
	metric, err := recorder.RecordKRA(context.Background(), job)

	assert.NoError(t, err)
	assert.Equal(t, "kra", metric.Kind)
	assert.Equal(t, job.TraceId, metric.TraceId)
	assert.Equal(t, job.TicketId, metric.TicketId)
	assert.InDelta(t, 0.8, metric.Score, 1e-9)
	assert.Len(t, uow.metricRepo.created, 1)

	var metadata map[string]interface{}
	assert.NoError(t, json.Unmarshal(metric.Metadata, &metadata))
	assert.Contains(t, metadata, "sub_scores")
}

func TestRecordKRAWithoutContext(t *testing.T) {
	recorder, _ := newTestRecorder(&fakeJudge{})

	job := testJob()
	job.Context = nil

	metric, err := recorder.RecordKRA(context.Background(), job)
	assert.NoError(t, err)
	assert.Zero(t, metric.Score)
}

func TestRecordRGQS(t *testing.T) {
	judge := &fakeJudge{response: `{"overall": 0.85, "relevance": 1.0, "accuracy": 0.8, "tone": 1.0, "reasoning": "solid"}`}
	recorder, _ := newTestRecorder(judge)

	metric, err := recorder.RecordRGQS(context.Background(), testJob())

	assert.NoError(t, err)
	assert.Equal(t, "rgqs", metric.Kind)
	assert.InDelta(t, 0.85, metric.Score, 1e-9)

	var metadata map[string]interface{}
	assert.NoError(t, json.Unmarshal(metric.Metadata, &metadata))
	subScores := metadata["sub_scores"].(map[string]interface{})
	assert.Contains(t, subScores, "overall")
	assert.Contains(t, subScores, "relevance")
	assert.Contains(t, subScores, "accuracy")
	assert.Contains(t, subScores, "tone")
}

func TestRecordRGQSClampsJudgeScores(t *testing.T) {
	judge := &fakeJudge{response: `{"overall": 1.4, "relevance": 1.4, "accuracy": -0.2, "tone": 1.0}`}
	recorder, _ := newTestRecorder(judge)

	metric, err := recorder.RecordRGQS(context.Background(), testJob())

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, metric.Score, 0.0)
	assert.LessOrEqual(t, metric.Score, 1.0)
}

func TestRecordRGQSJudgeFailure(t *testing.T) {
	tests := []struct {
		name  string
		judge *fakeJudge
	}{
		{"judge unreachable", &fakeJudge{err: fmt.Errorf("connection refused")}},
		{"judge talks prose", &fakeJudge{response: "the reply looks fine to me"}},
		{"judge emits broken json", &fakeJudge{response: `{"relevance": `}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder, uow := newTestRecorder(tt.judge)

			_, err := recorder.RecordRGQS(context.Background(), testJob())
			assert.Error(t, err)
			assert.Empty(t, uow.metricRepo.created)
		})
	}
}

func TestRecordIsBestEffort(t *testing.T) {
	// RGQS fails, KRA still lands and the snapshot is attached with only
	// the KRA side filled.
	recorder, uow := newTestRecorder(&fakeJudge{err: fmt.Errorf("judge down")})

	job := testJob()
	snapshot := recorder.Record(context.Background(), job)

	assert.NotNil(t, snapshot.KRA)
	assert.Nil(t, snapshot.RGQS)
	assert.Len(t, uow.metricRepo.created, 1)
	assert.Equal(t, job.MessageId, uow.messageRepo.updatedId)

	var stored agent.MetricSnapshot
	assert.NoError(t, json.Unmarshal(uow.messageRepo.updatedMetrics, &stored))
	assert.NotNil(t, stored.KRA)
	assert.Nil(t, stored.RGQS)
}
