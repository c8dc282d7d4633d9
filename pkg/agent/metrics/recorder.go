package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/llm"

	"github.com/google/uuid"
)

// Recorder persists the per-exchange metric observations. KRA is computed
// from the retrieval scores already on the job; RGQS asks a judge model to
// grade the reply against the query and the grounding context.
type Recorder struct {
	repositoryFactory unitofwork.RepositoryFactory
	judge             llm.LLMProvider
	aggregator        Aggregator
	logger            *log.Logger
}

func NewRecorder(
	repositoryFactory unitofwork.RepositoryFactory,
	judge llm.LLMProvider,
	aggregator Aggregator,
	logger *log.Logger,
) *Recorder {
	if aggregator == nil {
		aggregator = MeanAggregator{}
	}
	return &Recorder{
		repositoryFactory: repositoryFactory,
		judge:             judge,
		aggregator:        aggregator,
		logger:            logger,
	}
}

// Record scores one exchange and attaches the snapshot to the assistant
// message. Partial success is fine: a failed RGQS judge call still leaves
// the KRA row behind.
func (r *Recorder) Record(ctx context.Context, job *Job) *agent.MetricSnapshot {
	snapshot := &agent.MetricSnapshot{}

	kra, err := r.RecordKRA(ctx, job)
	if err != nil {
		r.logger.Printf("[METRICS] KRA recording failed (trace=%s): %v", job.TraceId, err)
	} else {
		snapshot.KRA = &kra.Score
	}

	rgqs, err := r.RecordRGQS(ctx, job)
	if err != nil {
		r.logger.Printf("[METRICS] RGQS recording failed (trace=%s): %v", job.TraceId, err)
	} else {
		snapshot.RGQS = &rgqs.Score
	}

	if snapshot.KRA != nil || snapshot.RGQS != nil {
		r.attachSnapshot(ctx, job.MessageId, snapshot)
	}

	return snapshot
}

// RecordKRA derives knowledge retrieval accuracy from the retrieval
// context: how precisely the index returned relevant chunks and how well
// the reply stayed inside them.
func (r *Recorder) RecordKRA(ctx context.Context, job *Job) (*entity.AgentMetric, error) {
	subScores := map[string]float64{
		"accuracy":      0,
		"relevance":     0,
		"context_match": 0,
	}
	if job.Context != nil {
		subScores["accuracy"] = Clamp01(job.Context.Accuracy)
		subScores["relevance"] = Clamp01(job.Context.Relevance)
		subScores["context_match"] = Clamp01(job.Context.ContextMatch)
	}

	return r.persist(ctx, job, constant.MetricKindKRA, r.aggregator.Aggregate(subScores), subScores)
}

// RecordRGQS asks the judge model to grade the reply on four axes. The
// judge's own overall grade becomes the metric score; the axes ride along
// as sub-scores.
func (r *Recorder) RecordRGQS(ctx context.Context, job *Job) (*entity.AgentMetric, error) {
	verdict, err := r.judgeResponse(ctx, job)
	if err != nil {
		return nil, err
	}

	subScores := map[string]float64{
		"overall":   Clamp01(verdict.Overall),
		"relevance": Clamp01(verdict.Relevance),
		"accuracy":  Clamp01(verdict.Accuracy),
		"tone":      Clamp01(verdict.Tone),
	}

	return r.persist(ctx, job, constant.MetricKindRGQS, Clamp01(verdict.Overall), subScores)
}

func (r *Recorder) persist(ctx context.Context, job *Job, kind string, score float64, subScores map[string]float64) (*entity.AgentMetric, error) {
	metadata, err := json.Marshal(map[string]interface{}{
		"sub_scores": subScores,
		"query":      job.Query,
	})
	if err != nil {
		return nil, err
	}

	metric := &entity.AgentMetric{
		Id:       uuid.New(),
		TraceId:  job.TraceId,
		TicketId: job.TicketId,
		Kind:     kind,
		Score:    score,
		Metadata: metadata,
	}

	uow := r.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.AgentMetricRepository().Create(ctx, metric); err != nil {
		return nil, err
	}

	r.logger.Printf("[METRICS] Recorded %s=%.3f (trace=%s)", kind, metric.Score, job.TraceId)
	return metric, nil
}

func (r *Recorder) attachSnapshot(ctx context.Context, messageId uuid.UUID, snapshot *agent.MetricSnapshot) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return
	}

	uow := r.repositoryFactory.NewUnitOfWork(ctx)
	if err := uow.TicketMessageRepository().UpdateMetrics(ctx, messageId, raw); err != nil {
		r.logger.Printf("[METRICS] Failed to attach snapshot to message %s: %v", messageId, err)
	}
}

type judgeVerdict struct {
	Overall   float64 `json:"overall"`
	Relevance float64 `json:"relevance"`
	Accuracy  float64 `json:"accuracy"`
	Tone      float64 `json:"tone"`
	Reasoning string  `json:"reasoning"`
}

func (r *Recorder) judgeResponse(ctx context.Context, job *Job) (*judgeVerdict, error) {
	prompt := r.buildJudgePrompt(job)

	response, err := r.judge.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("judge call failed: %w", err)
	}

	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in judge response")
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(jsonContent), &verdict); err != nil {
		return nil, fmt.Errorf("judge verdict unmarshal failed: %w", err)
	}

	return &verdict, nil
}

func (r *Recorder) buildJudgePrompt(job *Job) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a strict quality evaluator for customer support replies.\n")
	prompt.WriteString("You do NOT answer the customer. You only grade the assistant's reply.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<customer_query>\n")
	prompt.WriteString(job.Query)
	prompt.WriteString("\n</customer_query>\n\n")

	prompt.WriteString("<grounding_context>\n")
	if job.Context == nil || len(job.Context.Relevant) == 0 {
		prompt.WriteString("NONE. The reply was not grounded in knowledge base articles.\n")
	} else {
		for i, chunk := range job.Context.Relevant {
			prompt.WriteString(fmt.Sprintf("[%d] %s\n", i+1, chunk.Content))
		}
	}
	prompt.WriteString("</grounding_context>\n\n")

	prompt.WriteString("<assistant_reply>\n")
	prompt.WriteString(job.Response)
	prompt.WriteString("\n</assistant_reply>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Grade each axis from 0.0 to 1.0 and respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"overall\": 0.9,\n")
	prompt.WriteString("  \"relevance\": 0.9,\n")
	prompt.WriteString("  \"accuracy\": 0.9,\n")
	prompt.WriteString("  \"tone\": 1.0,\n")
	prompt.WriteString("  \"reasoning\": \"Brief justification\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("overall: your single summary grade for the reply as a whole.\n")
	prompt.WriteString("relevance: does the reply address the customer's actual question?\n")
	prompt.WriteString("accuracy: is every claim supported by the grounding context? Penalize invented facts.\n")
	prompt.WriteString("tone: is the reply professional and helpful?\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
