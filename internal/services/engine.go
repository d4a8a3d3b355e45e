package services

import (
	"errors"
	"io"

	"github.com/ruralpay/payments-engine/internal/models"
)

// RecordSource yields records in input order. Next returns io.EOF when the
// input is exhausted and a *RecordError for rows that must be skipped.
type RecordSource interface {
	Next() (models.Record, error)
}

// Stats counts what a run did with its input.
type Stats struct {
	Read      int
	Applied   int
	Rejected  int
	Malformed int
	Accounts  int
}

// Engine feeds a RecordSource through a Processor, one record at a time.
type Engine struct {
	processor *Processor
	audit     *AuditLogger
}

func NewEngine(p *Processor, audit *AuditLogger) *Engine {
	if audit == nil {
		audit = NewAuditLogger(nil)
	}
	return &Engine{processor: p, audit: audit}
}

func (e *Engine) Processor() *Processor { return e.processor }

// Run consumes src until io.EOF. Malformed rows and rejected records are
// counted and skipped; any other source error stops the run.
func (e *Engine) Run(src RecordSource) (Stats, error) {
	var stats Stats
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if IsRecordError(err) {
				stats.Malformed++
				e.audit.LogMalformed(err)
				continue
			}
			stats.Accounts = e.processor.Accounts().Len()
			return stats, err
		}

		stats.Read++
		out := e.processor.Apply(rec)
		if out.Applied() {
			stats.Applied++
			continue
		}
		stats.Rejected++
		e.audit.LogRejection(rec, out.Reason)
	}
	stats.Accounts = e.processor.Accounts().Len()
	e.audit.LogSummary(stats)
	return stats, nil
}
