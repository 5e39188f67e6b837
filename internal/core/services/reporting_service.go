package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
)

// contraKeywords mark account names that legitimately sit on the wrong side
// of their type's normal balance.
var contraKeywords = []string{"ACCUMULATED", "ALLOWANCE", "PROVISION", "CONTRA", "DRAWINGS", "DISCOUNT"}

// reportingService derives financial statements from posted journal activity.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	companySvc    portssvc.CompanySvcFacade
}

// NewReportingService creates a new ReportingSvcFacade.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, companySvc portssvc.CompanySvcFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo, companySvc: companySvc}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// closingOnNormalSide computes a row's closing balance expressed on the
// account's normal side: positive means the balance sits where expected.
func closingOnNormalSide(row domain.TrialBalanceRow) decimal.Decimal {
	net := row.Debits.Sub(row.Credits)
	if domain.NormalSideFor(row.AccountType) == domain.CreditSide {
		net = net.Neg()
	}
	return row.Opening.Add(net)
}

func (s *reportingService) activityForFY(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, *domain.Company, time.Time, error) {
	company, err := s.companySvc.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	fyStart, _ := accounting.FYBounds(asOf, company.FYStartMonth)
	rows, err := s.reportingRepo.GetActivityData(ctx, companyID, fyStart, asOf)
	if err != nil {
		s.LogError(ctx, err, "failed to load activity data", "company_id", companyID)
		return nil, nil, time.Time{}, err
	}
	return rows, company, fyStart, nil
}

func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, company, _, err := s.activityForFY(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		CompanyID:     companyID,
		FinancialYear: accounting.FinancialYear(asOf, company.FYStartMonth),
		AsOf:          asOf,
		Rows:          make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebits:   decimal.Zero,
		TotalCredits:  decimal.Zero,
	}

	for _, row := range rows {
		closing := closingOnNormalSide(row)
		row.Closing = closing
		report.Rows = append(report.Rows, row)

		// Each closing lands in the debit or credit column; negative balances
		// flip to the opposite column at their absolute value.
		side := domain.NormalSideFor(row.AccountType)
		if closing.IsNegative() {
			closing = closing.Neg()
			if side == domain.DebitSide {
				side = domain.CreditSide
			} else {
				side = domain.DebitSide
			}
		}
		if side == domain.DebitSide {
			report.TotalDebits = report.TotalDebits.Add(closing)
		} else {
			report.TotalCredits = report.TotalCredits.Add(closing)
		}
	}

	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].AccountCode < report.Rows[j].AccountCode })
	return report, nil
}

func (s *reportingService) IncomeStatement(ctx context.Context, companyID string, from, to time.Time) (*domain.IncomeStatement, error) {
	rows, err := s.reportingRepo.GetActivityData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "failed to load activity data", "company_id", companyID)
		return nil, err
	}

	statement := &domain.IncomeStatement{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	// Only movement within the period counts; opening balances belong to
	// earlier periods.
	for _, row := range rows {
		switch row.AccountType {
		case domain.Income:
			net := row.Credits.Sub(row.Debits)
			if net.IsZero() {
				continue
			}
			statement.Income = append(statement.Income, domain.AccountAmount{
				AccountID: row.AccountID, Code: row.AccountCode, Name: row.AccountName, NetAmount: net,
			})
			statement.TotalIncome = statement.TotalIncome.Add(net)
		case domain.Expense:
			net := row.Debits.Sub(row.Credits)
			if net.IsZero() {
				continue
			}
			statement.Expenses = append(statement.Expenses, domain.AccountAmount{
				AccountID: row.AccountID, Code: row.AccountCode, Name: row.AccountName, NetAmount: net,
			})
			statement.TotalExpense = statement.TotalExpense.Add(net)
		}
	}

	sortAccountAmounts(statement.Income)
	sortAccountAmounts(statement.Expenses)
	statement.NetProfit = statement.TotalIncome.Sub(statement.TotalExpense)
	return statement, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheet, error) {
	rows, _, _, err := s.activityForFY(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}

	sheet := &domain.BalanceSheet{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		RetainedProfit:   decimal.Zero,
	}

	for _, row := range rows {
		closing := closingOnNormalSide(row)
		amount := domain.AccountAmount{AccountID: row.AccountID, Code: row.AccountCode, Name: row.AccountName, NetAmount: closing}
		switch row.AccountType {
		case domain.Asset:
			sheet.Assets = append(sheet.Assets, amount)
			sheet.TotalAssets = sheet.TotalAssets.Add(closing)
		case domain.Liability:
			sheet.Liabilities = append(sheet.Liabilities, amount)
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(closing)
		case domain.Equity:
			sheet.Equity = append(sheet.Equity, amount)
			sheet.TotalEquity = sheet.TotalEquity.Add(closing)
		case domain.Income:
			// Profit not yet closed to equity folds into the equity section.
			sheet.RetainedProfit = sheet.RetainedProfit.Add(closing)
		case domain.Expense:
			sheet.RetainedProfit = sheet.RetainedProfit.Sub(closing)
		}
	}

	sortAccountAmounts(sheet.Assets)
	sortAccountAmounts(sheet.Liabilities)
	sortAccountAmounts(sheet.Equity)
	sheet.Balanced = domain.WithinTolerance(
		sheet.TotalAssets,
		sheet.TotalLiabilities.Add(sheet.TotalEquity).Add(sheet.RetainedProfit),
	)
	return sheet, nil
}

func (s *reportingService) AbnormalBalances(ctx context.Context, companyID string, asOf time.Time) ([]domain.AbnormalBalance, error) {
	rows, _, _, err := s.activityForFY(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}

	var abnormal []domain.AbnormalBalance
	for _, row := range rows {
		closing := closingOnNormalSide(row)
		if !closing.IsNegative() {
			continue
		}

		category := domain.AbnormalUnexpected
		action := "Review postings to this account; the balance sits opposite its normal side."
		if isContraName(row.AccountName) {
			category = domain.AbnormalContra
			action = "Recognised contra pattern; no action needed."
		}

		abnormal = append(abnormal, domain.AbnormalBalance{
			AccountID:       row.AccountID,
			AccountCode:     row.AccountCode,
			AccountName:     row.AccountName,
			AccountType:     row.AccountType,
			ExpectedSide:    domain.NormalSideFor(row.AccountType),
			ClosingBalance:  closing,
			Category:        category,
			SuggestedAction: action,
		})
	}

	sort.Slice(abnormal, func(i, j int) bool { return abnormal[i].AccountCode < abnormal[j].AccountCode })
	return abnormal, nil
}

func isContraName(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range contraKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func sortAccountAmounts(amounts []domain.AccountAmount) {
	sort.Slice(amounts, func(i, j int) bool { return amounts[i].Code < amounts[j].Code })
}
