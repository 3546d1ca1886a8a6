package gmail

import (
	"fmt"
	"strings"
)

// BuildQuery assembles the mailbox search expression for bank notification
// emails: a from: clause per configured sender, OR-joined, scoped to the
// lookback window with newer_than.
func BuildQuery(senders []string, lookbackDays int) string {
	clauses := make([]string, 0, len(senders))
	for _, sender := range senders {
		sender = strings.TrimSpace(sender)
		if sender == "" {
			continue
		}
		clauses = append(clauses, "from:"+sender)
	}
	return fmt.Sprintf("(%s) newer_than:%dd", strings.Join(clauses, " OR "), lookbackDays)
}
