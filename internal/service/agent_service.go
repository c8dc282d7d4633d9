// FILE: internal/service/agent_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"support-agent-be/internal/constant"
	"support-agent-be/internal/dto"
	"support-agent-be/internal/entity"
	"support-agent-be/internal/repository/memory"
	"support-agent-be/internal/repository/specification"
	"support-agent-be/internal/repository/unitofwork"
	"support-agent-be/pkg/agent"
	"support-agent-be/pkg/agent/access"
	"support-agent-be/pkg/agent/metrics"
	"support-agent-be/pkg/agent/orchestrator"
	"support-agent-be/pkg/agent/tool"
	"support-agent-be/pkg/events"
	"support-agent-be/pkg/llm"
	pktNats "support-agent-be/pkg/nats"
	"support-agent-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// historyWindow is the number of recent turns handed to the planner.
const historyWindow = 20

type IAgentService interface {
	Chat(ctx context.Context, userId uuid.UUID, role string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	ListTools(role string) []*dto.ListToolsResponse
	ExecuteTool(ctx context.Context, userId uuid.UUID, role string, req *dto.ExecuteToolRequest) (*agent.ToolCall, error)
	GetHistory(ctx context.Context, userId uuid.UUID, role string, ticketId uuid.UUID) ([]*dto.ChatHistoryResponse, error)
	GetMetrics(ctx context.Context, traceId uuid.UUID) ([]*dto.AgentMetricResponse, error)
	GetUsage(ctx context.Context, userId uuid.UUID) (*dto.AgentUsageResponse, error)
}

type agentService struct {
	uowFactory       unitofwork.RepositoryFactory
	pipeline         *orchestrator.Orchestrator
	registry         *tool.Registry
	executor         *tool.Executor
	conversationRepo *memory.ConversationRepository
	usageLimiter     *access.UsageLimiter
	conversationLock *access.ConversationLock
	metricsPublisher IPublisherService
	eventPublisher   *pktNats.Publisher
	dailyLimit       int
	logger           *log.Logger
}

func NewAgentService(
	uowFactory unitofwork.RepositoryFactory,
	pipeline *orchestrator.Orchestrator,
	registry *tool.Registry,
	executor *tool.Executor,
	conversationRepo *memory.ConversationRepository,
	usageLimiter *access.UsageLimiter,
	conversationLock *access.ConversationLock,
	metricsPublisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	dailyLimit int,
) IAgentService {
	return &agentService{
		uowFactory:       uowFactory,
		pipeline:         pipeline,
		registry:         registry,
		executor:         executor,
		conversationRepo: conversationRepo,
		usageLimiter:     usageLimiter,
		conversationLock: conversationLock,
		metricsPublisher: metricsPublisher,
		eventPublisher:   eventPublisher,
		dailyLimit:       dailyLimit,
		logger:           initAgentLogger(),
	}
}

func initAgentLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "agent_pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return log.New(os.Stderr, "[AGENT] ", log.LstdFlags)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stderr, "[AGENT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (s *agentService) Chat(ctx context.Context, userId uuid.UUID, role string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	if err := s.usageLimiter.Allow(ctx, userId); err != nil {
		return nil, fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	}

	if req.TicketId != nil {
		if err := s.verifyTicketAccess(ctx, userId, role, *req.TicketId); err != nil {
			return nil, err
		}
	}

	conversationId := userId.String()
	if req.TicketId != nil {
		conversationId = req.TicketId.String()
	}

	release, err := s.conversationLock.Acquire(ctx, conversationId)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusConflict, err.Error())
	}
	defer release()

	conversation := s.loadConversation(ctx, conversationId, userId, req.TicketId)

	history := make([]llm.Message, 0, len(conversation.Turns))
	for _, turn := range conversation.Turns {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	response, err := s.pipeline.Handle(ctx, orchestrator.Request{
		Message:        req.Message,
		TicketId:       req.TicketId,
		UserId:         userId,
		Role:           role,
		History:        history,
		CategoryFilter: req.Category,
	})
	if err != nil {
		if errors.Is(err, agent.ErrModelUnavailable) {
			s.logger.Printf("[ERROR] Pipeline failed (trace=%s): %v", response.TraceId, err)
			// The customer still gets the generic failure reply; nothing
			// is persisted for a run that produced no real answer.
			return toChatResponse(response), nil
		}
		return nil, err
	}

	userContent := ""
	if req.Message != nil {
		userContent = *req.Message
	}

	assistantMsg, persistErr := s.persistExchange(ctx, userId, req.TicketId, response, userContent)
	if persistErr != nil {
		s.logger.Printf("[ERROR] Failed to persist exchange (trace=%s): %v", response.TraceId, persistErr)
	}

	if userContent != "" {
		conversation.Append(constant.MessageRoleUser, userContent, historyWindow)
	}
	conversation.Append(constant.MessageRoleAssistant, response.Content, historyWindow)
	s.conversationRepo.Save(conversation)

	if assistantMsg != nil {
		s.publishMetricsJob(ctx, response, assistantMsg.Id, req.TicketId, userContent)
	}

	if s.eventPublisher != nil {
		ticketIdStr := ""
		if req.TicketId != nil {
			ticketIdStr = req.TicketId.String()
		}
		_ = s.eventPublisher.Publish(ctx, events.NewAgentResponseCompleted(response.TraceId.String(), ticketIdStr, len(response.ToolCalls)))
	}

	return toChatResponse(response), nil
}

func (s *agentService) verifyTicketAccess(ctx context.Context, userId uuid.UUID, role string, ticketId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: ticketId})
	if err != nil || ticket == nil {
		return fiber.NewError(fiber.StatusNotFound, "Ticket not found")
	}
	if role == constant.RoleUser && ticket.CustomerId != userId {
		return fiber.NewError(fiber.StatusForbidden, "Not your ticket")
	}
	return nil
}

func (s *agentService) loadConversation(ctx context.Context, conversationId string, userId uuid.UUID, ticketId *uuid.UUID) *store.Conversation {
	if conversation, found := s.conversationRepo.Get(conversationId); found {
		return conversation
	}

	conversation := &store.Conversation{
		ID:     conversationId,
		UserID: userId.String(),
	}
	if ticketId != nil {
		conversation.TicketID = ticketId.String()

		// Cold cache: rebuild the window from persisted messages.
		uow := s.uowFactory.NewUnitOfWork(ctx)
		messages, err := uow.TicketMessageRepository().FindAll(ctx,
			specification.ByTicketID{TicketID: *ticketId},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err == nil {
			for _, msg := range messages {
				conversation.Append(msg.Role, msg.Content, historyWindow)
			}
		}
	}
	return conversation
}

func (s *agentService) persistExchange(ctx context.Context, userId uuid.UUID, ticketId *uuid.UUID, response *agent.Response, userContent string) (*entity.TicketMessage, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if userContent != "" {
		userMsg := &entity.TicketMessage{
			Id:       uuid.New(),
			TicketId: ticketId,
			UserId:   userId,
			Role:     constant.MessageRoleUser,
			Content:  userContent,
			TraceId:  response.TraceId,
		}
		if err := uow.TicketMessageRepository().Create(ctx, userMsg); err != nil {
			return nil, err
		}
	}

	toolCallsJSON, _ := json.Marshal(response.ToolCalls)
	contextJSON, _ := json.Marshal(response.Context)

	assistantMsg := &entity.TicketMessage{
		Id:          uuid.New(),
		TicketId:    ticketId,
		UserId:      userId,
		Role:        constant.MessageRoleAssistant,
		Content:     response.Content,
		TraceId:     response.TraceId,
		ToolCalls:   toolCallsJSON,
		ContextUsed: contextJSON,
	}
	if err := uow.TicketMessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}

func (s *agentService) publishMetricsJob(ctx context.Context, response *agent.Response, messageId uuid.UUID, ticketId *uuid.UUID, query string) {
	job := metrics.Job{
		TraceId:   response.TraceId,
		TicketId:  ticketId,
		MessageId: messageId,
		Query:     query,
		Response:  response.Content,
		Context:   response.Context,
		ToolCalls: response.ToolCalls,
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return
	}
	if err := s.metricsPublisher.Publish(ctx, raw); err != nil {
		s.logger.Printf("[WARN] Failed to publish metrics job (trace=%s): %v", response.TraceId, err)
	}
}

func (s *agentService) ListTools(role string) []*dto.ListToolsResponse {
	defs := s.registry.List(role)
	res := make([]*dto.ListToolsResponse, 0, len(defs))
	for _, def := range defs {
		res = append(res, &dto.ListToolsResponse{
			Name:         def.Name,
			Description:  def.Description,
			RequiredRole: def.RequiredRole,
		})
	}
	return res
}

func (s *agentService) ExecuteTool(ctx context.Context, userId uuid.UUID, role string, req *dto.ExecuteToolRequest) (*agent.ToolCall, error) {
	args := req.Arguments
	if args == nil {
		args = map[string]interface{}{}
	}

	call := s.executor.Execute(ctx, agent.PipelineCall{
		TraceId:      uuid.New(),
		Tool:         req.Tool,
		Arguments:    args,
		ActingUserId: userId,
		ActingRole:   role,
	})
	return call, nil
}

func (s *agentService) GetHistory(ctx context.Context, userId uuid.UUID, role string, ticketId uuid.UUID) ([]*dto.ChatHistoryResponse, error) {
	if err := s.verifyTicketAccess(ctx, userId, role, ticketId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.TicketMessageRepository().FindAll(ctx,
		specification.ByTicketID{TicketID: ticketId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		item := &dto.ChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			TraceId:   msg.TraceId,
			CreatedAt: msg.CreatedAt,
		}
		if len(msg.ToolCalls) > 0 {
			_ = json.Unmarshal(msg.ToolCalls, &item.ToolCalls)
		}
		if len(msg.Metrics) > 0 {
			_ = json.Unmarshal(msg.Metrics, &item.Metrics)
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *agentService) GetMetrics(ctx context.Context, traceId uuid.UUID) ([]*dto.AgentMetricResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rows, err := uow.AgentMetricRepository().FindAll(ctx,
		specification.ByTraceID{TraceID: traceId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.AgentMetricResponse, 0, len(rows))
	for _, row := range rows {
		res = append(res, &dto.AgentMetricResponse{
			Id:        row.Id,
			TraceId:   row.TraceId,
			TicketId:  row.TicketId,
			Kind:      row.Kind,
			Score:     row.Score,
			CreatedAt: row.CreatedAt,
		})
	}
	return res, nil
}

func (s *agentService) GetUsage(ctx context.Context, userId uuid.UUID) (*dto.AgentUsageResponse, error) {
	used, err := s.usageLimiter.Usage(ctx, userId)
	if err != nil {
		used = 0
	}
	return &dto.AgentUsageResponse{Used: used, Limit: s.dailyLimit}, nil
}

func toChatResponse(response *agent.Response) *dto.SendChatResponse {
	return &dto.SendChatResponse{
		TraceId:   response.TraceId,
		Content:   response.Content,
		ToolCalls: response.ToolCalls,
		Context:   response.Context,
		Metrics:   response.Metrics,
	}
}
