package memory

import (
	"time"

	"argovers-soil-be/pkg/report"

	"github.com/patrickmn/go-cache"
)

// Report generation states.
const (
	ReportStatusPending = "pending"
	ReportStatusReady   = "ready"
	ReportStatusFailed  = "failed"
)

// ReportRecord is the stored generation state for one session.
type ReportRecord struct {
	SessionID string         `json:"session_id"`
	Status    string         `json:"status"`
	Report    *report.Report `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ReportRepository struct {
	cache *cache.Cache
}

func NewReportRepository(ttl time.Duration) *ReportRepository {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	return &ReportRepository{cache: c}
}

func (r *ReportRepository) Save(record *ReportRecord) {
	record.UpdatedAt = time.Now()
	r.cache.Set(record.SessionID, record, cache.DefaultExpiration)
}

func (r *ReportRepository) Get(sessionID string) (*ReportRecord, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*ReportRecord), true
	}
	return nil, false
}
