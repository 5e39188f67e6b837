package matching

import (
	"regexp"
	"strings"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// Markers seen in the wild on reversed/returned bank lines. Prefix markers
// carry more weight than a keyword buried mid-description.
var (
	reversalPrefixes = []string{"REV-", "REV:", "REV ", "RTN-", "RET-", "CHGBK", "REVERSAL"}
	reversalKeywords = []string{"REVERSAL", "REVERSED", "RETURNED", "CHARGEBACK", "BOUNCE", "DISHONOUR", "DISHONOR"}
)

// Confidence contributions. A prefix marker plus an extracted original
// reference is enough to cross the suggestion threshold on its own.
const (
	prefixConfidence  = 60
	keywordConfidence = 40
	refConfidence     = 30

	// ReversalThreshold is the confidence at which a transaction is treated
	// as a likely reversal.
	ReversalThreshold = 50
)

// originalRefPattern extracts the reference of the reversed original from the
// remainder of the description, e.g. "REV-TXN123" yields "TXN123".
var originalRefPattern = regexp.MustCompile(`[A-Z]{2,}[A-Z0-9/-]*\d+`)

// DetectReversal inspects a bank transaction's description and reference for
// reversal markers and scores a confidence between 0 and 100.
func DetectReversal(txn domain.BankTransaction) domain.ReversalDetection {
	detection := domain.ReversalDetection{TransactionID: txn.TransactionID}
	text := strings.ToUpper(strings.TrimSpace(txn.Description))
	if text == "" {
		text = strings.ToUpper(strings.TrimSpace(txn.ReferenceNumber))
	}
	if text == "" {
		return detection
	}

	confidence := 0
	remainder := text
	for _, prefix := range reversalPrefixes {
		if strings.HasPrefix(text, prefix) {
			confidence += prefixConfidence
			detection.MatchedMarker = strings.TrimSpace(strings.Trim(prefix, "-:"))
			remainder = strings.TrimSpace(text[len(prefix):])
			break
		}
	}

	if detection.MatchedMarker == "" {
		for _, keyword := range reversalKeywords {
			if idx := strings.Index(text, keyword); idx >= 0 {
				confidence += keywordConfidence
				detection.MatchedMarker = keyword
				remainder = strings.TrimSpace(text[idx+len(keyword):])
				break
			}
		}
	}

	if detection.MatchedMarker != "" {
		if ref := originalRefPattern.FindString(remainder); ref != "" {
			confidence += refConfidence
			detection.OriginalRef = ref
		}
	}

	if confidence > 100 {
		confidence = 100
	}
	detection.Confidence = confidence
	detection.IsLikely = confidence >= ReversalThreshold
	return detection
}
