package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeEntryToken creates a base64 keyset token from an entry date and entry
// number, the stable sort key for journal entry listings.
func EncodeEntryToken(entryDate time.Time, entryNumber int64) string {
	tokenStr := fmt.Sprintf("%s|%d", entryDate.Format(timeFormat), entryNumber)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeEntryToken parses a token back into its entry date and entry number.
func DecodeEntryToken(token string) (time.Time, int64, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token (split)")
	}

	entryDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token (date parse): %w", err)
	}
	entryNumber, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token (number parse): %w", err)
	}
	return entryDate, entryNumber, nil
}

// EncodeDateToken creates a token from a single timestamp, used for bank
// transaction listings keyed on date+created_at.
func EncodeDateToken(date time.Time, createdAt time.Time) string {
	tokenStr := fmt.Sprintf("%s|%s", date.Format(timeFormat), createdAt.Format(timeFormat))
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeDateToken parses a token created by EncodeDateToken.
func DecodeDateToken(token string) (time.Time, time.Time, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (split)")
	}
	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (date parse): %w", err)
	}
	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid pagination token (created_at parse): %w", err)
	}
	return date, createdAt, nil
}
