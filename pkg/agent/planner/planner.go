// Package planner turns the conversation state into a model prompt and
// parses the model's structured decision: either a final reply or a batch
// of tool requests to attempt first.
package planner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/agent/tool"
	"support-agent-be/pkg/llm"
	"support-agent-be/pkg/retry"

	"go.uber.org/zap"
)

// ToolRequest is the model's wish to invoke one tool.
type ToolRequest struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
	Reasoning string                 `json:"reasoning"`
}

// Plan is one planning decision. When ToolRequests is empty, Reply is the
// final answer for this exchange.
type Plan struct {
	Reply        string        `json:"reply"`
	ToolRequests []ToolRequest `json:"tool_requests"`
}

// Input carries everything the planner needs for one round.
type Input struct {
	Query     string
	History   []llm.Message
	Context   *agent.RAGContext
	Tools     []*tool.Definition
	PrevCalls []*agent.ToolCall
	Round     int
	MaxRounds int
}

type Planner struct {
	llmProvider llm.LLMProvider
	timeout     time.Duration
	retryCfg    retry.Config
	logger      *log.Logger
}

func NewPlanner(llmProvider llm.LLMProvider, timeout time.Duration, retryLogger *zap.Logger, logger *log.Logger) *Planner {
	return &Planner{
		llmProvider: llmProvider,
		timeout:     timeout,
		retryCfg:    retry.ModelCallConfig(retryLogger),
		logger:      logger,
	}
}

// Plan asks the model for the next step. Model unavailability after the
// retry budget is fatal and surfaces as agent.ErrModelUnavailable; a
// malformed model reply is not, it degrades to a plain-text final reply.
func (p *Planner) Plan(ctx context.Context, in Input) (*Plan, error) {
	prompt := p.buildPrompt(in)

	// The timeout bounds each attempt, not the whole retry loop: a hung
	// backend must still leave budget for the backoff retry.
	response, err := retry.DoWithResult(ctx, p.retryCfg, func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.llmProvider.Generate(callCtx, prompt, llm.WithTemperature(0.2))
	})
	if err != nil {
		p.logger.Printf("[PLANNER] Model call failed after retries: %v", err)
		return nil, fmt.Errorf("%w: %v", agent.ErrModelUnavailable, err)
	}

	plan, err := parsePlan(response)
	if err != nil {
		p.logger.Printf("[PLANNER] Unparseable plan, degrading to plain reply: %v", err)
		return &Plan{Reply: strings.TrimSpace(response)}, nil
	}

	p.logger.Printf("[PLANNER] Round %d/%d: %d tool request(s)", in.Round, in.MaxRounds, len(plan.ToolRequests))
	return plan, nil
}

func (p *Planner) buildPrompt(in Input) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a customer support assistant for a SaaS product.\n")
	prompt.WriteString("Answer ONLY from the knowledge base context below. If the context does not cover the question, say so honestly.\n")
	prompt.WriteString("You may request backend tools instead of replying, but only the tools listed below and only when the customer's request requires them.\n")
	prompt.WriteString("</system>\n\n")

	if len(in.History) > 0 {
		prompt.WriteString("<conversation_history>\n")
		for _, msg := range in.History {
			prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
		prompt.WriteString("</conversation_history>\n\n")
	}

	prompt.WriteString("<knowledge_base_context>\n")
	if in.Context.Empty() || len(in.Context.Relevant) == 0 {
		prompt.WriteString("NO relevant articles found. Do not invent product facts.\n")
	} else {
		for i, chunk := range in.Context.Relevant {
			prompt.WriteString(fmt.Sprintf("[%d] \"%s\" (relevance %.2f)\n%s\n\n", i+1, chunk.Title, chunk.Similarity, chunk.Content))
		}
	}
	prompt.WriteString("</knowledge_base_context>\n\n")

	prompt.WriteString("<available_tools>\n")
	if len(in.Tools) == 0 {
		prompt.WriteString("NONE. You must answer directly.\n")
	} else {
		for _, def := range in.Tools {
			prompt.WriteString(fmt.Sprintf("- %s: %s\n", def.Name, def.Description))
			for _, arg := range def.Args {
				required := "optional"
				if arg.Required {
					required = "required"
				}
				prompt.WriteString(fmt.Sprintf("    %s (%s, %s): %s\n", arg.Name, arg.Type, required, arg.Description))
			}
		}
	}
	prompt.WriteString("</available_tools>\n\n")

	if len(in.PrevCalls) > 0 {
		prompt.WriteString("<executed_tools>\n")
		prompt.WriteString("These tools already ran for this message. Use their results; do NOT request them again.\n")
		for _, call := range in.PrevCalls {
			if call.Failed() {
				prompt.WriteString(fmt.Sprintf("- %s FAILED: %s\n", call.Tool, call.Error))
			} else {
				prompt.WriteString(fmt.Sprintf("- %s OK: %v\n", call.Tool, call.Result))
			}
		}
		prompt.WriteString("</executed_tools>\n\n")
	}

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(in.Query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"reply\": \"your answer to the customer, empty string if tools must run first\",\n")
	prompt.WriteString("  \"tool_requests\": [\n")
	prompt.WriteString("    {\"tool\": \"tool_name\", \"arguments\": {\"arg\": \"value\"}, \"reasoning\": \"why\"}\n")
	prompt.WriteString("  ]\n")
	prompt.WriteString("}\n")
	prompt.WriteString(fmt.Sprintf("This is planning round %d of %d. After round %d you MUST reply without tools.\n", in.Round, in.MaxRounds, in.MaxRounds))
	prompt.WriteString("</output_format>")

	return prompt.String()
}
