package format

import "time"

// EmptyDate is shown in place of a missing timestamp.
const EmptyDate = "—"

const dateTimeLayout = "3:04pm, 2 Jan"

// DateTime renders t as "9:05am, 3 Feb" in t's own location.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return EmptyDate
	}
	return t.Format(dateTimeLayout)
}
