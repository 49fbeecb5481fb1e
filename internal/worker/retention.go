// Package worker содержит фоновые задачи обслуживания базы.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/docmint-backend/internal/logger"
	"github.com/ignatzorin/docmint-backend/internal/models"
)

// DocumentPurger удаляет устаревшие несохранённые документы.
type DocumentPurger interface {
	PurgeUnsaved(ctx context.Context, before time.Time) ([]models.PurgedDocument, error)
}

// PDFEvictor удаляет закэшированные PDF документа.
type PDFEvictor interface {
	Delete(ctx context.Context, docID uuid.UUID) error
}

// UserCacheInvalidator сбрасывает кэш пользователя (дашборд и т.п.).
type UserCacheInvalidator interface {
	InvalidateUserCache(userID uuid.UUID)
}

// UsageMaintainer обслуживает счётчики и сессии пользователей.
type UsageMaintainer interface {
	ResetMonthlyUsage(ctx context.Context, periodStart time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Report итог одного прохода.
type Report struct {
	PurgedDocuments int64 `json:"purgedDocuments"`
	ResetUsers      int64 `json:"resetUsers"`
	ExpiredSessions int64 `json:"expiredSessions"`
}

// Retention периодически чистит несохранённые документы и сбрасывает месячные счётчики.
type Retention struct {
	docs     DocumentPurger
	users    UsageMaintainer
	pdfs     PDFEvictor
	caches   UserCacheInvalidator
	period   time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewRetention создаёт воркер. period задаёт возраст удаляемых документов.
func NewRetention(docs DocumentPurger, users UsageMaintainer, period, interval time.Duration) *Retention {
	return &Retention{
		docs:     docs,
		users:    users,
		period:   period,
		interval: interval,
		now:      time.Now,
	}
}

// WithPDFEvictor включает удаление закэшированных PDF удалённых черновиков.
func (r *Retention) WithPDFEvictor(p PDFEvictor) *Retention {
	r.pdfs = p
	return r
}

// WithCacheInvalidator включает сброс кэша владельцев удалённых черновиков.
func (r *Retention) WithCacheInvalidator(c UserCacheInvalidator) *Retention {
	r.caches = c
	return r
}

// Run выполняет проход сразу и далее по таймеру до отмены ctx.
// Ошибки прохода логируются и не останавливают воркер.
func (r *Retention) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx, r.period); err != nil && ctx.Err() == nil {
			logger.L().WithField("error", err.Error()).Error("retention: проход завершился ошибкой")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce удаляет несохранённые документы старше olderThan, сбрасывает
// счётчик генераций у пользователей с прошлым учётным периодом и чистит истёкшие сессии.
func (r *Retention) RunOnce(ctx context.Context, olderThan time.Duration) (*Report, error) {
	now := r.now().UTC()
	report := &Report{}

	purged, err := r.docs.PurgeUnsaved(ctx, now.Add(-olderThan))
	if err != nil {
		return report, fmt.Errorf("retention: purge: %w", err)
	}
	report.PurgedDocuments = int64(len(purged))
	r.evict(ctx, purged)

	reset, err := r.users.ResetMonthlyUsage(ctx, MonthStart(now))
	if err != nil {
		return report, fmt.Errorf("retention: reset usage: %w", err)
	}
	report.ResetUsers = reset

	expired, err := r.users.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return report, fmt.Errorf("retention: sessions: %w", err)
	}
	report.ExpiredSessions = expired

	logger.L().WithFields(logrus.Fields{
		"purged_documents": report.PurgedDocuments,
		"reset_users":      report.ResetUsers,
		"expired_sessions": report.ExpiredSessions,
		"older_than":       olderThan.String(),
	}).Info("retention: проход завершён")

	return report, nil
}

// evict убирает следы удалённых черновиков из кэшей.
// Ошибка удаления файла не прерывает проход: строка в базе уже удалена.
func (r *Retention) evict(ctx context.Context, purged []models.PurgedDocument) {
	users := make(map[uuid.UUID]struct{})
	for _, doc := range purged {
		users[doc.UserID] = struct{}{}
		if r.pdfs == nil {
			continue
		}
		if err := r.pdfs.Delete(ctx, doc.ID); err != nil {
			logger.L().WithFields(logrus.Fields{
				"document_id": doc.ID,
				"error":       err.Error(),
			}).Warn("retention: не удалось удалить PDF из кэша")
		}
	}
	if r.caches == nil {
		return
	}
	for id := range users {
		r.caches.InvalidateUserCache(id)
	}
}

// MonthStart первое число месяца t в UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
