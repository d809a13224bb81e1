package dto

import "argovers-soil-be/pkg/report"

type GenerateReportResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type ShowReportResponse struct {
	SessionID string         `json:"session_id"`
	Status    string         `json:"status"`
	Report    *report.Report `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
}
