package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ruralpay/payments-engine/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrMissingHeader     = errors.New("input header must name type, client and tx columns")
	ErrMissingAmount     = errors.New("amount is required for deposits and withdrawals")
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")
)

// RecordError describes an input row that could not be turned into a Record.
// The row is skipped; reading can continue.
type RecordError struct {
	Line  int
	Field string
	Cause error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Cause)
}

func (e *RecordError) Unwrap() error { return e.Cause }

// IsRecordError reports whether err is a skippable row error.
func IsRecordError(err error) bool {
	var recErr *RecordError
	return errors.As(err, &recErr)
}

type columns struct {
	kind, client, tx, amount int
}

// RecordReader streams typed records out of CSV input with a
// `type,client,tx,amount` header. Rows may leave out the trailing amount.
type RecordReader struct {
	csv       *csv.Reader
	validator *ValidationHelper
	cols      columns
	started   bool
}

func NewRecordReader(r io.Reader, v *ValidationHelper) *RecordReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	if v == nil {
		v = NewValidationHelper()
	}
	return &RecordReader{csv: cr, validator: v}
}

// Next returns the next record, io.EOF at the end of input, or a *RecordError
// for a row that should be skipped. Any other error is fatal.
func (rr *RecordReader) Next() (models.Record, error) {
	if !rr.started {
		if err := rr.readHeader(); err != nil {
			return models.Record{}, err
		}
		rr.started = true
	}

	row, err := rr.csv.Read()
	if err == io.EOF {
		return models.Record{}, io.EOF
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return models.Record{}, &RecordError{Line: perr.Line, Cause: perr.Err}
		}
		return models.Record{}, fmt.Errorf("read input: %w", err)
	}
	line, _ := rr.csv.FieldPos(0)
	return rr.parse(line, row)
}

func (rr *RecordReader) readHeader() error {
	row, err := rr.csv.Read()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	cols := columns{kind: -1, client: -1, tx: -1, amount: -1}
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "type":
			cols.kind = i
		case "client":
			cols.client = i
		case "tx":
			cols.tx = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.kind < 0 || cols.client < 0 || cols.tx < 0 {
		return fmt.Errorf("%w: got %q", ErrMissingHeader, strings.Join(row, ","))
	}
	rr.cols = cols
	return nil
}

func (rr *RecordReader) parse(line int, row []string) (models.Record, error) {
	raw := models.RawRecord{
		Type:   strings.ToLower(field(row, rr.cols.kind)),
		Client: field(row, rr.cols.client),
		Tx:     field(row, rr.cols.tx),
		Amount: field(row, rr.cols.amount),
	}
	if err := rr.validator.ValidateStruct(&raw); err != nil {
		return models.Record{}, &RecordError{Line: line, Field: firstInvalidField(err), Cause: err}
	}

	kind, err := models.ParseKind(raw.Type)
	if err != nil {
		return models.Record{}, &RecordError{Line: line, Field: "Type", Cause: err}
	}
	client, err := strconv.ParseUint(raw.Client, 10, 16)
	if err != nil {
		return models.Record{}, &RecordError{Line: line, Field: "Client", Cause: err}
	}
	tx, err := strconv.ParseUint(raw.Tx, 10, 32)
	if err != nil {
		return models.Record{}, &RecordError{Line: line, Field: "Tx", Cause: err}
	}

	rec := models.Record{
		Kind:     kind,
		ClientID: models.ClientID(client),
		TxID:     models.TransactionID(tx),
	}
	if !kind.RequiresAmount() {
		return rec, nil
	}

	if raw.Amount == "" {
		return models.Record{}, &RecordError{Line: line, Field: "Amount", Cause: ErrMissingAmount}
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return models.Record{}, &RecordError{Line: line, Field: "Amount", Cause: err}
	}
	if !amount.IsPositive() {
		return models.Record{}, &RecordError{Line: line, Field: "Amount", Cause: ErrNonPositiveAmount}
	}
	rec.Amount = decimal.NewNullDecimal(amount)
	return rec, nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func firstInvalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
