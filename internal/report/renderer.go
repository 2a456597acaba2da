package report

import (
	"bytes"
	"fmt"
	"time"

	"financepro/internal/cache"
	"financepro/internal/ledger"
	"financepro/internal/log"
)

// Renderer renders reports and caches the bytes per ledger revision, so
// repeated downloads of an unchanged ledger skip the render.
type Renderer struct {
	currency string
	cache    cache.Cache[[]byte]
	logger   *log.Logger
	now      func() time.Time
}

// NewRenderer creates a Renderer. A nil cache disables caching.
func NewRenderer(currency string, c cache.Cache[[]byte], logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Renderer{
		currency: currency,
		cache:    c,
		logger:   logger.WithComponent(log.ComponentReport),
		now:      time.Now,
	}
}

// Currency returns the display currency code.
func (r *Renderer) Currency() string { return r.currency }

// Render returns the CSV report for s at the given revision.
func (r *Renderer) Render(s ledger.State, revision uint64, opts Options) ([]byte, error) {
	now := r.now()
	key := cacheKey(revision, opts, now)
	if r.cache != nil {
		if b, ok := r.cache.Get(key); ok {
			r.logger.Debug("Report served from cache", log.FieldRevision, revision)
			return b, nil
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, s, opts, r.currency, now); err != nil {
		r.logger.Error("Failed to render report", log.FieldError, err, log.FieldRevision, revision)
		return nil, err
	}
	out := buf.Bytes()
	if r.cache != nil {
		r.cache.Set(key, out)
	}
	r.logger.Info("Report rendered",
		log.FieldOperation, log.OpRender,
		log.FieldRevision, revision,
		"period", string(opts.Period),
		"bytes", len(out),
	)
	return out, nil
}

// Filename is the suggested download name for a report rendered now.
func (r *Renderer) Filename() string {
	return fmt.Sprintf("finance_pro_report_%s.csv", r.now().Format(dateLayout))
}

// The date is part of the key because period filters and the header depend
// on the current day.
func cacheKey(revision uint64, opts Options, now time.Time) string {
	return fmt.Sprintf("%d|%s|%t|%t|%t|%s",
		revision, opts.Period, opts.Budgets, opts.Debts, opts.Transactions, now.Format(dateLayout))
}
