package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ruralpay/payments-engine/internal/models"
)

// DefaultPrecision is the number of fractional digits in written amounts.
const DefaultPrecision = 4

var snapshotHeader = []string{"client", "available", "held", "total", "locked"}

// WriteCSV writes the final account table. Amounts are rendered with
// precision fractional digits.
func WriteCSV(w io.Writer, accounts []models.Account, precision int) error {
	if precision < 0 {
		precision = DefaultPrecision
	}
	p := int32(precision)

	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.ClientID), 10),
			a.Available.StringFixed(p),
			a.Held.StringFixed(p),
			a.Total().StringFixed(p),
			strconv.FormatBool(a.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write client %d: %w", a.ClientID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
