package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/hibiken/asynq"

	"github.com/lembarbuku/lembarbuku/internal/ledger"
)

// amountTolerance absorbs float drift from repeated accumulation.
const amountTolerance = 0.01

// IntegrityChecker sweeps the report files for bookkeeping inconsistencies.
// Propagation is best effort and never rolls back, so a failed write can
// leave the reports out of step with each other. The sweep surfaces that.
type IntegrityChecker struct {
	store  ledger.TableStore
	logger *slog.Logger
}

// NewIntegrityChecker constructs the checker over the report store.
func NewIntegrityChecker(store ledger.TableStore, logger *slog.Logger) *IntegrityChecker {
	return &IntegrityChecker{store: store, logger: logger}
}

// HandlerFunc adapts the checker into an Asynq handler.
func (c *IntegrityChecker) HandlerFunc() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload LedgerIntegrityPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		issues, err := c.Run(ctx)
		if err != nil {
			return err
		}
		if len(issues) > 0 {
			c.logger.Warn("integritas pembukuan bermasalah",
				slog.String("transaction_id", payload.TransactionID),
				slog.Int("jumlah", len(issues)))
		}
		return nil
	}
}

// Run executes every check against the reports that exist. Missing report
// files are not an inconsistency, they simply have not been initialised.
func (c *IntegrityChecker) Run(ctx context.Context) ([]string, error) {
	var issues []string

	for _, check := range []func(context.Context) ([]string, error){
		c.checkJournalBalance,
		c.checkTrialBalance,
		c.checkWorksheet,
		c.checkPostClosing,
	} {
		if err := ctx.Err(); err != nil {
			return issues, err
		}
		found, err := check(ctx)
		if err != nil {
			return issues, err
		}
		issues = append(issues, found...)
	}

	for _, issue := range issues {
		c.logger.Warn("pemeriksaan integritas", slog.String("temuan", issue))
	}
	return issues, nil
}

// checkJournalBalance verifies the general journal debits equal its credits.
func (c *IntegrityChecker) checkJournalBalance(context.Context) ([]string, error) {
	kind := ledger.KindGeneralJournal
	if !c.store.Exists(kind.Filename()) {
		return nil, nil
	}
	table, err := c.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return nil, err
	}
	debit := sumColumn(table.Rows, table.ColumnIndex("Debet"))
	credit := sumColumn(table.Rows, table.ColumnIndex("Kredit"))
	if math.Abs(debit-credit) > amountTolerance {
		return []string{fmt.Sprintf("%s: total debet %.2f tidak sama dengan total kredit %.2f", kind.DisplayName(), debit, credit)}, nil
	}
	return nil, nil
}

// checkTrialBalance verifies the trial balance debits equal its credits.
func (c *IntegrityChecker) checkTrialBalance(context.Context) ([]string, error) {
	kind := ledger.KindTrialBalance
	if !c.store.Exists(kind.Filename()) {
		return nil, nil
	}
	table, err := c.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return nil, err
	}
	debit := sumColumn(table.Rows, table.ColumnIndex("Debet"))
	credit := sumColumn(table.Rows, table.ColumnIndex("Kredit"))
	if math.Abs(debit-credit) > amountTolerance {
		return []string{fmt.Sprintf("%s: total debet %.2f tidak sama dengan total kredit %.2f", kind.DisplayName(), debit, credit)}, nil
	}
	return nil, nil
}

// checkWorksheet verifies the worksheet trial-balance columns reconcile with
// the trial balance report when both exist.
func (c *IntegrityChecker) checkWorksheet(context.Context) ([]string, error) {
	wk := ledger.KindWorksheet
	tb := ledger.KindTrialBalance
	if !c.store.Exists(wk.Filename()) || !c.store.Exists(tb.Filename()) {
		return nil, nil
	}
	worksheet, err := c.store.Load(wk.Filename(), wk.Columns())
	if err != nil {
		return nil, err
	}
	trial, err := c.store.Load(tb.Filename(), tb.Columns())
	if err != nil {
		return nil, err
	}

	var issues []string
	wkDebit := sumColumn(worksheet.Rows, worksheet.ColumnIndex("Neraca Saldo Debet"))
	tbDebit := sumColumn(trial.Rows, trial.ColumnIndex("Debet"))
	if math.Abs(wkDebit-tbDebit) > amountTolerance {
		issues = append(issues, fmt.Sprintf("%s: Neraca Saldo Debet %.2f tidak cocok dengan %s %.2f", wk.DisplayName(), wkDebit, tb.DisplayName(), tbDebit))
	}
	wkCredit := sumColumn(worksheet.Rows, worksheet.ColumnIndex("Neraca Saldo Kredit"))
	tbCredit := sumColumn(trial.Rows, trial.ColumnIndex("Kredit"))
	if math.Abs(wkCredit-tbCredit) > amountTolerance {
		issues = append(issues, fmt.Sprintf("%s: Neraca Saldo Kredit %.2f tidak cocok dengan %s %.2f", wk.DisplayName(), wkCredit, tb.DisplayName(), tbCredit))
	}
	return issues, nil
}

// checkPostClosing verifies only balance-sheet accounts survive closing.
func (c *IntegrityChecker) checkPostClosing(context.Context) ([]string, error) {
	kind := ledger.KindPostClosingTrialBalance
	if !c.store.Exists(kind.Filename()) {
		return nil, nil
	}
	table, err := c.store.Load(kind.Filename(), kind.Columns())
	if err != nil {
		return nil, err
	}
	nameIdx := table.ColumnIndex("Nama Akun")
	if nameIdx < 0 {
		return nil, nil
	}
	var issues []string
	for _, row := range table.Rows {
		if nameIdx >= len(row) {
			continue
		}
		name := row[nameIdx]
		if name == "" {
			continue
		}
		if ledger.Classify(name) != ledger.CategoryBalanceSheet {
			issues = append(issues, fmt.Sprintf("%s: akun %q bukan akun neraca", kind.DisplayName(), name))
		}
	}
	return issues, nil
}

func sumColumn(rows [][]string, idx int) float64 {
	if idx < 0 {
		return 0
	}
	var total float64
	for _, row := range rows {
		if idx < len(row) {
			total += ledger.ParseAmount(row[idx])
		}
	}
	return total
}
