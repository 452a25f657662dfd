// Package sheets mirrors the ledger into a spreadsheet.
//
// The export is a full rewrite of two tabs: one row per ledger entry and one
// row per katha with its derived figures. Rewriting keeps the export
// idempotent, so a replayed or out-of-order message cannot corrupt it.
package sheets

import "context"

// LedgerExporter writes a workbook to its destination, replacing whatever
// the previous export left there.
type LedgerExporter interface {
	ExportLedger(ctx context.Context, wb Workbook) error
}
