package services

import (
	"github.com/ruralpay/payments-engine/internal/models"
	"go.uber.org/zap"
)

// AuditLogger records what happened to individual input rows. Rejections are
// silent in the output, so this is the only trace of them; it logs at debug
// level.
type AuditLogger struct {
	log *zap.Logger
}

func NewAuditLogger(log *zap.Logger) *AuditLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditLogger{log: log.Named("audit")}
}

func (a *AuditLogger) LogRejection(rec models.Record, reason error) {
	fields := []zap.Field{
		zap.String("event_type", "REJECTED"),
		zap.String("kind", string(rec.Kind)),
		zap.Uint16("client", rec.ClientID),
		zap.Uint32("tx", rec.TxID),
		zap.NamedError("reason", reason),
	}
	if rec.Amount.Valid {
		fields = append(fields, zap.String("amount", rec.Amount.Decimal.String()))
	}
	a.log.Debug("record rejected", fields...)
}

func (a *AuditLogger) LogMalformed(err error) {
	fields := []zap.Field{
		zap.String("event_type", "MALFORMED"),
		zap.Error(err),
	}
	if details := FieldErrors(err); details != nil {
		fields = append(fields, zap.Any("fields", details))
	}
	a.log.Debug("record skipped", fields...)
}

func (a *AuditLogger) LogSummary(stats Stats) {
	a.log.Info("replay finished",
		zap.Int("read", stats.Read),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.Rejected),
		zap.Int("malformed", stats.Malformed),
		zap.Int("accounts", stats.Accounts),
	)
}
