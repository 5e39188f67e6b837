// Package matching implements the pure scoring used to rank reconciliation
// candidates against a bank transaction. Every term is side-effect free so
// candidate ranking can run fully in parallel and be tested in isolation.
package matching

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Term weights. They sum to 1 so a perfect candidate scores exactly 100.
const (
	amountWeight = 0.5
	dateWeight   = 0.3
	textWeight   = 0.2
)

// Penalty shaping constants.
const (
	// amountPenaltyFactor scales the relative amount difference: a candidate
	// differing by 25% of the transaction amount scores zero on the amount term.
	amountPenaltyFactor = 400.0
	// datePenaltyPerDay is deducted from the date term per day of distance, so
	// candidates 20 or more days away score zero on the date term.
	datePenaltyPerDay = 5.0
)

// ScoreCandidate computes the 0-100 match score between a bank transaction
// and one internal candidate. An exact amount, exact date and exact reference
// yield 100; the score is monotonically non-increasing as any difference grows.
func ScoreCandidate(txn domain.BankTransaction, c domain.ReconCandidate) domain.ReconciliationSuggestion {
	amountScore := amountTerm(txn.Amount, c.Amount)
	dateScore := dateTerm(daysBetween(txn.Date, c.Date))
	textScore := textTerm(txn, c)

	total := amountScore*amountWeight + dateScore*dateWeight + textScore*textWeight

	return domain.ReconciliationSuggestion{
		Candidate:   c,
		Score:       round2(total),
		AmountScore: round2(amountScore),
		DateScore:   round2(dateScore),
		TextScore:   round2(textScore),
	}
}

// Rank scores every candidate and sorts best-first. Ties on score are broken
// by smallest amount difference, then smallest date difference, then the most
// recently created candidate.
func Rank(txn domain.BankTransaction, candidates []domain.ReconCandidate) []domain.ReconciliationSuggestion {
	suggestions := make([]domain.ReconciliationSuggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = ScoreCandidate(txn, c)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		si, sj := suggestions[i], suggestions[j]
		if !si.Score.Equal(sj.Score) {
			return si.Score.GreaterThan(sj.Score)
		}
		di := txn.Amount.Sub(si.Candidate.Amount).Abs()
		dj := txn.Amount.Sub(sj.Candidate.Amount).Abs()
		if !di.Equal(dj) {
			return di.LessThan(dj)
		}
		ddi := daysBetween(txn.Date, si.Candidate.Date)
		ddj := daysBetween(txn.Date, sj.Candidate.Date)
		if ddi != ddj {
			return ddi < ddj
		}
		return si.Candidate.CreatedAt.After(sj.Candidate.CreatedAt)
	})
	return suggestions
}

// ScoreOriginal computes the 0-100 match score between a likely reversal and
// one candidate original transaction, using the same term weights as
// candidate scoring.
func ScoreOriginal(reversal, original domain.BankTransaction) domain.ReversalOriginalSuggestion {
	amountScore := amountTerm(reversal.Amount, original.Amount)
	dateScore := dateTerm(daysBetween(reversal.Date, original.Date))
	textScore := originalTextTerm(reversal, original)

	total := amountScore*amountWeight + dateScore*dateWeight + textScore*textWeight

	return domain.ReversalOriginalSuggestion{
		Original:    original,
		Score:       round2(total),
		AmountScore: round2(amountScore),
		DateScore:   round2(dateScore),
		TextScore:   round2(textScore),
	}
}

// RankOriginals scores every candidate original and sorts best-first, with
// the same tie-breaking as Rank.
func RankOriginals(reversal domain.BankTransaction, candidates []domain.BankTransaction) []domain.ReversalOriginalSuggestion {
	suggestions := make([]domain.ReversalOriginalSuggestion, len(candidates))
	for i, c := range candidates {
		suggestions[i] = ScoreOriginal(reversal, c)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		si, sj := suggestions[i], suggestions[j]
		if !si.Score.Equal(sj.Score) {
			return si.Score.GreaterThan(sj.Score)
		}
		di := reversal.Amount.Sub(si.Original.Amount).Abs()
		dj := reversal.Amount.Sub(sj.Original.Amount).Abs()
		if !di.Equal(dj) {
			return di.LessThan(dj)
		}
		ddi := daysBetween(reversal.Date, si.Original.Date)
		ddj := daysBetween(reversal.Date, sj.Original.Date)
		if ddi != ddj {
			return ddi < ddj
		}
		return si.Original.CreatedAt.After(sj.Original.CreatedAt)
	})
	return suggestions
}

// originalTextTerm compares the original reference extracted from the
// reversal's marker ("REV-TXN123" carries "TXN123") against the candidate's
// reference, falling back to plain reference and description similarity.
func originalTextTerm(reversal, original domain.BankTransaction) float64 {
	best := 0.0
	if ref := DetectReversal(reversal).OriginalRef; ref != "" {
		best = similarity(ref, original.ReferenceNumber)
		if best == 1 {
			return 100
		}
	}
	for _, s := range []float64{
		similarity(reversal.ReferenceNumber, original.ReferenceNumber),
		similarity(reversal.Description, original.Description),
		similarity(reversal.Description, original.ReferenceNumber),
	} {
		if s > best {
			best = s
		}
	}
	return best * 100
}

// amountTerm scores 100 for an exact amount and decays with the relative
// difference, floored at zero for large deltas.
func amountTerm(txnAmount, candidateAmount decimal.Decimal) float64 {
	if txnAmount.IsZero() {
		if candidateAmount.IsZero() {
			return 100
		}
		return 0
	}
	diff, _ := txnAmount.Sub(candidateAmount).Abs().Float64()
	base, _ := txnAmount.Abs().Float64()
	score := 100 - (diff/base)*amountPenaltyFactor
	if score < 0 {
		return 0
	}
	return score
}

// dateTerm scores 100 for the same day and loses datePenaltyPerDay per day.
func dateTerm(days int) float64 {
	score := 100 - float64(days)*datePenaltyPerDay
	if score < 0 {
		return 0
	}
	return score
}

// textTerm scores the reference and description similarity. An exact
// normalized reference match is a full score; otherwise the better of
// reference and description similarity is used.
func textTerm(txn domain.BankTransaction, c domain.ReconCandidate) float64 {
	refSim := similarity(txn.ReferenceNumber, c.ReferenceNumber)
	if refSim == 1 {
		return 100
	}
	descSim := similarity(txn.Description, c.Description)
	crossSim := similarity(txn.Description, c.ReferenceNumber)
	best := refSim
	for _, s := range []float64{descSim, crossSim} {
		if s > best {
			best = s
		}
	}
	return best * 100
}

// similarity compares two normalized strings: 1 for equality, 0.8 for
// containment, token overlap (Jaccard) otherwise.
func similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}
	return jaccard(tokens(a), tokens(b))
}

// Normalize upper-cases and strips everything but letters and digits.
func Normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func tokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[tok] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersect := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersect++
		}
	}
	union := len(a) + len(b) - intersect
	return float64(intersect) / float64(union)
}

// daysBetween returns the absolute distance in whole calendar days.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ub.Sub(ua).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}
