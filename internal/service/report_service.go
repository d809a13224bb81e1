package service

import (
	"context"
	"encoding/json"
	"fmt"

	"argovers-soil-be/internal/dto"
	"argovers-soil-be/internal/pkg/logger"
	"argovers-soil-be/internal/repository/memory"
	"argovers-soil-be/pkg/report"
	"argovers-soil-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
)

type IReportService interface {
	Generate(ctx context.Context, sessionID string) (*dto.GenerateReportResponse, error)
	GetStatus(sessionID string) (*dto.ShowReportResponse, error)
	Consume(ctx context.Context) error
}

type reportService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	sessionRepo  *memory.SessionRepository
	reportRepo   *memory.ReportRepository
	orchestrator *report.Orchestrator
	logger       logger.ILogger
}

func NewReportService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sessionRepo *memory.SessionRepository,
	reportRepo *memory.ReportRepository,
	orchestrator *report.Orchestrator,
	log logger.ILogger,
) IReportService {
	return &reportService{
		pubSub:       pubSub,
		topicName:    topicName,
		sessionRepo:  sessionRepo,
		reportRepo:   reportRepo,
		orchestrator: orchestrator,
		logger:       log,
	}
}

// Generate queues report generation for a finished session. Repeated calls
// while a report is pending or ready return the current status instead of
// queueing again.
func (s *reportService) Generate(_ context.Context, sessionID string) (*dto.GenerateReportResponse, error) {
	s.sessionRepo.Lock(sessionID)
	session, found := s.sessionRepo.Get(sessionID)
	complete := found && session.IsComplete()
	s.sessionRepo.Unlock(sessionID)

	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("session %s not found", sessionID))
	}
	if !complete {
		return nil, fiber.NewError(fiber.StatusConflict, "session is not complete yet")
	}

	if record, exists := s.reportRepo.Get(sessionID); exists && record.Status != memory.ReportStatusFailed {
		return &dto.GenerateReportResponse{SessionID: sessionID, Status: record.Status}, nil
	}

	s.reportRepo.Save(&memory.ReportRecord{
		SessionID: sessionID,
		Status:    memory.ReportStatusPending,
	})

	payload, err := json.Marshal(dto.PublishGenerateReportMessage{SessionID: sessionID})
	if err != nil {
		return nil, err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.topicName, msg); err != nil {
		s.logger.Error("ReportService", "failed to publish generation event", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.GenerateReportResponse{SessionID: sessionID, Status: memory.ReportStatusPending}, nil
}

func (s *reportService) GetStatus(sessionID string) (*dto.ShowReportResponse, error) {
	record, found := s.reportRepo.Get(sessionID)
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("no report for session %s", sessionID))
	}
	return &dto.ShowReportResponse{
		SessionID: record.SessionID,
		Status:    record.Status,
		Report:    record.Report,
		Error:     record.Error,
	}, nil
}

func (s *reportService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *reportService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishGenerateReportMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("ReportService", "failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.sessionRepo.Lock(payload.SessionID)
	session, found := s.sessionRepo.Get(payload.SessionID)
	var data report.SoilData
	if found {
		data = soilDataFromSession(session)
	}
	s.sessionRepo.Unlock(payload.SessionID)

	if !found {
		// Session expired between queueing and processing. Ack.
		s.logger.Warn("ReportService", "session gone before generation", map[string]interface{}{"session_id": payload.SessionID})
		s.reportRepo.Save(&memory.ReportRecord{
			SessionID: payload.SessionID,
			Status:    memory.ReportStatusFailed,
			Error:     "session expired",
		})
		msg.Ack()
		return
	}

	s.logger.Info("ReportService", "generating report", map[string]interface{}{"session_id": payload.SessionID})

	result, err := s.orchestrator.Generate(ctx, data)
	if err != nil {
		s.logger.Error("ReportService", "report generation failed", map[string]interface{}{
			"session_id": payload.SessionID,
			"error":      err.Error(),
		})
		s.reportRepo.Save(&memory.ReportRecord{
			SessionID: payload.SessionID,
			Status:    memory.ReportStatusFailed,
			Error:     err.Error(),
		})
		// Ack so the broker does not redeliver forever; the client can
		// re-queue from the failed status.
		msg.Ack()
		return
	}

	s.reportRepo.Save(&memory.ReportRecord{
		SessionID: payload.SessionID,
		Status:    memory.ReportStatusReady,
		Report:    result,
	})

	s.logger.Info("ReportService", "report ready", map[string]interface{}{"session_id": payload.SessionID})
	msg.Ack()
}

func soilDataFromSession(session *store.Session) report.SoilData {
	answers := session.Answers
	return report.SoilData{
		SessionID:           session.ID,
		Language:            session.Language,
		SoilColor:           deref(answers.Color),
		MoistureLevel:       deref(answers.Moisture),
		SoilSmell:           deref(answers.Smell),
		PHLevel:             phDisplay(answers),
		SoilType:            deref(answers.SoilType),
		Earthworms:          deref(answers.Earthworms),
		Location:            deref(answers.Location),
		PreviousFertilizers: deref(answers.FertilizerUsed),
	}
}

func phDisplay(answers store.SoilAnswers) string {
	if answers.PHValue != nil {
		return fmt.Sprintf("%.1f", *answers.PHValue)
	}
	return deref(answers.PHCategory)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
