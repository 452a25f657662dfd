// Package memory keeps exported workbooks in memory for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	ports "katha/internal/sheets"
)

type Exporter struct {
	mu      sync.Mutex
	exports []ports.Workbook
	err     error
}

var _ ports.LedgerExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

// FailWith makes every following export return err. A nil err restores
// normal behaviour.
func (e *Exporter) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

func (e *Exporter) ExportLedger(ctx context.Context, wb ports.Workbook) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.exports = append(e.exports, wb)
	return nil
}

// Exports returns every workbook written so far, oldest first.
func (e *Exporter) Exports() []ports.Workbook {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.Workbook(nil), e.exports...)
}

// Last returns the most recent export.
func (e *Exporter) Last() (ports.Workbook, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.exports) == 0 {
		return ports.Workbook{}, false
	}
	return e.exports[len(e.exports)-1], true
}
