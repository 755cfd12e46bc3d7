package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lembarbuku/lembarbuku/internal/platform/csvdb"
	"github.com/lembarbuku/lembarbuku/internal/shared"
)

// TableStore abstracts the CSV-backed report store.
type TableStore interface {
	Exists(name string) bool
	Load(name string, columns []string) (csvdb.Table, error)
	Save(name string, table csvdb.Table) error
	Update(name string, columns []string, fn func(*csvdb.Table) error) error
}

// AuditPort records ledger events.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Result reports what one propagation touched. Updated lists display names
// of the reports written, in propagation order. Failures maps a report name
// to the error its write produced; a failed report never appears in Updated.
type Result struct {
	ID       string
	Updated  []string
	Failures map[string]error
}

// Propagator fans one transaction out into every report file that already
// exists. Reports are never created here: a report missing its backing file
// is skipped, and writes proceed sequentially, best effort, with no
// cross-report rollback.
type Propagator struct {
	store  TableStore
	audit  AuditPort
	logger *slog.Logger
	now    func() time.Time
}

// NewPropagator constructs the propagation engine.
func NewPropagator(store TableStore, audit AuditPort, logger *slog.Logger) *Propagator {
	return &Propagator{store: store, audit: audit, logger: logger, now: time.Now}
}

// WithNow overrides the clock for testing.
func (p *Propagator) WithNow(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// Propagate applies one transaction to every initialised report. The only
// rejection is a transaction with no amount on either side; everything else,
// including unbalanced entries, is accepted.
func (p *Propagator) Propagate(ctx context.Context, trx Transaction) (Result, error) {
	if err := trx.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{ID: uuid.NewString(), Failures: make(map[string]error)}
	date := trx.Date.Format(DateLayout)

	for _, posting := range trx.Postings() {
		if !IsKnownAccount(posting.Account) {
			p.logger.Warn("akun di luar daftar akun dikenal, diklasifikasikan sebagai neraca",
				slog.String("akun", posting.Account),
				slog.String("kategori", string(Classify(posting.Account))))
		}
	}

	p.applyGeneralJournal(&res, trx, date)
	p.applyLedgers(&res, trx, date)
	p.applyTrialBalance(&res, trx)
	p.applyWorksheet(&res, trx)
	p.applyClosingJournal(&res, trx, date)
	p.applyPostClosing(&res, trx)

	p.recordAudit(ctx, res, trx)
	return res, nil
}

func (p *Propagator) applyGeneralJournal(res *Result, trx Transaction, date string) {
	kind := KindGeneralJournal
	if !p.store.Exists(kind.Filename()) {
		return
	}
	err := p.store.Update(kind.Filename(), kind.Columns(), func(t *csvdb.Table) error {
		if trx.DebitAmount > 0 {
			appendJournalRow(t, date, journalDescription(trx.DebitAccount, trx.Description), trx.DebitAmount, 0)
		}
		if trx.CreditAmount > 0 {
			appendJournalRow(t, date, journalDescription(trx.CreditAccount, trx.Description), 0, trx.CreditAmount)
		}
		return nil
	})
	p.finish(res, kind.DisplayName(), err)
}

// applyLedgers updates the per-account ledgers of both sides. The existence
// checks are independent: the debit account's ledger may exist while the
// credit account's does not.
func (p *Propagator) applyLedgers(res *Result, trx Transaction, date string) {
	touched := false
	var failure error

	if trx.DebitAmount > 0 {
		name := LedgerFile(NormalizeKey(trx.DebitAccount))
		if p.store.Exists(name) {
			err := p.store.Update(name, LedgerColumns(), func(t *csvdb.Table) error {
				appendLedgerRow(t, date, trx.DebitAmount, 0)
				return nil
			})
			if err != nil {
				failure = err
			} else {
				touched = true
			}
		}
	}
	if trx.CreditAmount > 0 {
		name := LedgerFile(NormalizeKey(trx.CreditAccount))
		if p.store.Exists(name) {
			err := p.store.Update(name, LedgerColumns(), func(t *csvdb.Table) error {
				appendLedgerRow(t, date, 0, trx.CreditAmount)
				return nil
			})
			if err != nil {
				failure = err
			} else {
				touched = true
			}
		}
	}

	display := KindGeneralLedger.DisplayName()
	if failure != nil {
		res.Failures[display] = failure
		p.logger.Error("gagal memperbarui laporan", slog.String("laporan", display), slog.Any("error", failure))
	}
	if touched {
		res.Updated = append(res.Updated, display)
	}
}

func (p *Propagator) applyTrialBalance(res *Result, trx Transaction) {
	kind := KindTrialBalance
	if !p.store.Exists(kind.Filename()) {
		return
	}
	err := p.store.Update(kind.Filename(), kind.Columns(), func(t *csvdb.Table) error {
		if trx.DebitAmount > 0 {
			accumulateBalanceRow(t, trx.DebitAccount, trx.DebitAmount, 0)
		}
		if trx.CreditAmount > 0 {
			accumulateBalanceRow(t, trx.CreditAccount, 0, trx.CreditAmount)
		}
		return nil
	})
	p.finish(res, kind.DisplayName(), err)
}

func (p *Propagator) applyWorksheet(res *Result, trx Transaction) {
	kind := KindWorksheet
	if !p.store.Exists(kind.Filename()) {
		return
	}
	err := p.store.Update(kind.Filename(), kind.Columns(), func(t *csvdb.Table) error {
		if trx.DebitAmount > 0 {
			accumulateWorksheetRow(t, trx.DebitAccount, trx.DebitAmount, 0)
		}
		if trx.CreditAmount > 0 {
			accumulateWorksheetRow(t, trx.CreditAccount, 0, trx.CreditAmount)
		}
		return nil
	})
	p.finish(res, kind.DisplayName(), err)
}

// applyClosingJournal routes only income statement accounts; balance sheet
// accounts produce no closing entry.
func (p *Propagator) applyClosingJournal(res *Result, trx Transaction, date string) {
	kind := KindClosingJournal
	if !p.store.Exists(kind.Filename()) {
		return
	}
	closeDebit := trx.DebitAmount > 0 && Classify(trx.DebitAccount) == CategoryIncomeStatement
	closeCredit := trx.CreditAmount > 0 && Classify(trx.CreditAccount) == CategoryIncomeStatement
	if !closeDebit && !closeCredit {
		return
	}
	err := p.store.Update(kind.Filename(), kind.Columns(), func(t *csvdb.Table) error {
		if closeDebit {
			appendClosingRows(t, date, trx.DebitAccount, trx.DebitAmount, 0)
		}
		if closeCredit {
			appendClosingRows(t, date, trx.CreditAccount, 0, trx.CreditAmount)
		}
		return nil
	})
	p.finish(res, kind.DisplayName(), err)
}

// applyPostClosing routes only balance sheet accounts.
func (p *Propagator) applyPostClosing(res *Result, trx Transaction) {
	kind := KindPostClosingTrialBalance
	if !p.store.Exists(kind.Filename()) {
		return
	}
	postDebit := trx.DebitAmount > 0 && Classify(trx.DebitAccount) == CategoryBalanceSheet
	postCredit := trx.CreditAmount > 0 && Classify(trx.CreditAccount) == CategoryBalanceSheet
	if !postDebit && !postCredit {
		return
	}
	err := p.store.Update(kind.Filename(), kind.Columns(), func(t *csvdb.Table) error {
		if postDebit {
			accumulateBalanceRow(t, trx.DebitAccount, trx.DebitAmount, 0)
		}
		if postCredit {
			accumulateBalanceRow(t, trx.CreditAccount, 0, trx.CreditAmount)
		}
		return nil
	})
	p.finish(res, kind.DisplayName(), err)
}

func (p *Propagator) finish(res *Result, display string, err error) {
	if err != nil {
		res.Failures[display] = err
		p.logger.Error("gagal memperbarui laporan", slog.String("laporan", display), slog.Any("error", err))
		return
	}
	res.Updated = append(res.Updated, display)
}

func (p *Propagator) recordAudit(ctx context.Context, res Result, trx Transaction) {
	if p.audit == nil {
		return
	}
	failures := make(map[string]string, len(res.Failures))
	for name, err := range res.Failures {
		failures[name] = err.Error()
	}
	meta := map[string]any{
		"tanggal":      trx.Date.Format(DateLayout),
		"akun_debet":   trx.DebitAccount,
		"nilai_debet":  trx.DebitAmount,
		"akun_kredit":  trx.CreditAccount,
		"nilai_kredit": trx.CreditAmount,
		"diperbarui":   res.Updated,
	}
	if len(failures) > 0 {
		meta["gagal"] = failures
	}
	if err := p.audit.Record(ctx, shared.AuditLog{
		Actor:    "pemilik",
		Action:   "transaction.propagate",
		Entity:   "transaction",
		EntityID: res.ID,
		Meta:     meta,
		At:       p.now(),
	}); err != nil {
		p.logger.Warn("audit record", slog.Any("error", err))
	}
}
