// Package statement turns raw statement inputs (plain text, OFX/QFX) into
// Transaction records for the engine.
package statement

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/subscout/subscout/internal/model"
)

// maxAmount discards absurd magnitudes that come from OCR or layout noise.
const maxAmount = 1_000_000

var datePattern = regexp.MustCompile(`(?i)\b(` +
	`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}` + // 01/12/2025 or 1-2-25
	`|\d{4}[./-]\d{1,2}[./-]\d{1,2}` + // 2025-01-12 or 2025.1.12
	`|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[ -]\d{1,2},?[ -]?\d{2,4}` + // Aug 12, 2025
	`|\d{1,2}[ -](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[ -]\d{2,4}` + // 02-Aug-2025
	`)\b`)

var amountPattern = regexp.MustCompile(
	`([-+])?\s*(?:USD|US\$|\$)?\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})|\d+(?:\.\d{1,2})?)\b`)

// headerKeywords identify statement boilerplate lines to skip.
var headerKeywords = []string{
	"account holder", "account number", "statement period", "statement date",
	"date description", "amount ($)", "opening balance", "closing balance",
	"page", "subtotal", "total", "summary",
}

// ParseText extracts transactions from a plain-text statement. A line must
// carry both a date and a money-looking amount; the last money token on the
// line is taken as the amount, and the remainder becomes the description.
// Malformed lines are dropped, never fatal. Output is sorted by
// (date, description).
func ParseText(text string) []model.Transaction {
	var txns []model.Transaction
	dropped := 0

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isHeaderLine(line) {
			continue
		}

		dateLoc := datePattern.FindStringIndex(line)
		if dateLoc == nil {
			continue
		}

		amt, amtLoc, ok := lastMoneyToken(line, dateLoc)
		if !ok {
			continue
		}
		if amt > maxAmount || amt < -maxAmount {
			dropped++
			continue
		}

		date, err := parseDate(line[dateLoc[0]:dateLoc[1]])
		if err != nil {
			dropped++
			continue
		}

		desc := strings.Trim(
			cutSpans(line, dateLoc, amtLoc),
			" -:|•\t")
		if desc == "" {
			desc = "Transaction"
		}

		txType := model.TypeCredit
		if amt < 0 {
			txType = model.TypeDebit
		}
		txns = append(txns, model.Transaction{
			Date:        date,
			Description: desc,
			Amount:      amt,
			Currency:    "USD",
			Type:        txType,
		})
	}

	if dropped > 0 {
		slog.Debug("dropped malformed statement lines", "count", dropped)
	}

	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].Description < txns[j].Description
	})
	return txns
}

func isHeaderLine(line string) bool {
	low := strings.ToLower(line)
	for _, k := range headerKeywords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

// lastMoneyToken finds the final amount match that looks like money: a
// currency marker or a decimal point. Bare integers are usually reference
// numbers, not amounts. Matches inside the date span are never amounts; a
// dotted date like 2025.1.12 reads as a decimal otherwise.
func lastMoneyToken(line string, dateLoc []int) (float64, []int, bool) {
	matches := amountPattern.FindAllStringSubmatchIndex(line, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if m[0] < dateLoc[1] && m[1] > dateLoc[0] {
			continue
		}
		token := strings.ToLower(line[m[0]:m[1]])
		if !strings.Contains(token, "$") && !strings.Contains(token, "usd") && !strings.Contains(token, ".") {
			continue
		}
		sign := ""
		if m[2] >= 0 {
			sign = line[m[2]:m[3]]
		}
		val := strings.ReplaceAll(line[m[4]:m[5]], ",", "")
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			continue
		}
		if sign == "-" {
			f = -f
		}
		return f, []int{m[0], m[1]}, true
	}
	return 0, nil, false
}

// cutSpans removes the date and amount spans from the line.
func cutSpans(line string, a, b []int) string {
	if a[0] > b[0] {
		a, b = b, a
	}
	return line[:a[0]] + line[a[1]:b[0]] + line[b[1]:]
}

// dateLayouts are tried in order against a separator-normalized token.
var dateLayouts = []string{
	"1 2 2006", "1 2 06",
	"2006 1 2",
	"Jan 2 2006", "Jan 2 06",
	"January 2 2006",
	"2 Jan 2006", "2 Jan 06",
	"2 January 2006",
}

// parseDate handles the date formats the pattern admits: numeric with
// /-. separators (month-first for ambiguous forms), and spelled months in
// either order.
func parseDate(s string) (time.Time, error) {
	norm := strings.NewReplacer("/", " ", "-", " ", ".", " ", ",", "").Replace(s)
	fields := strings.Fields(norm)
	for i, f := range fields {
		if f == "" {
			continue
		}
		c := f[0]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			fields[i] = titleMonth(f)
		}
	}
	norm = strings.Join(fields, " ")

	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, norm); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// titleMonth normalizes month-name casing and truncates long names the
// layouts cannot express (e.g. "SEPT") to their 3-letter abbreviation when
// they are not a full month name.
func titleMonth(tok string) string {
	low := strings.ToLower(tok)
	full := map[string]string{
		"january": "January", "february": "February", "march": "March",
		"april": "April", "may": "May", "june": "June", "july": "July",
		"august": "August", "september": "September", "october": "October",
		"november": "November", "december": "December",
	}
	if name, ok := full[low]; ok {
		return name
	}
	if len(low) >= 3 {
		abbr := strings.ToUpper(low[:1]) + low[1:3]
		return abbr
	}
	return tok
}
