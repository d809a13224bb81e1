package dto

// PublishGenerateReportMessage is the payload for the report generation topic.
type PublishGenerateReportMessage struct {
	SessionID string `json:"session_id"`
}
