package slack

import "fmt"

// ListError reports a failed or unparseable listing page fetch. The page
// cursor was never obtained, so the listing cannot continue past it.
type ListError struct {
	// Cursor is the cursor of the page that failed; empty for the first page.
	Cursor string
	Err    error
}

func (e *ListError) Error() string {
	if e.Cursor == "" {
		return fmt.Sprintf("failed to fetch emoji list or parse response: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch emoji list at cursor %q or parse response: %v", e.Cursor, e.Err)
}

func (e *ListError) Unwrap() error { return e.Err }

// RetryExhaustedError reports an emoji.add call that was throttled on
// every attempt, including the retries. The payload was never delivered.
type RetryExhaustedError struct {
	Operation string
	Key       string
	Attempts  int
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("could not %s %s within %d attempts, skipping", e.Operation, e.Key, e.Attempts)
}

// RejectedError reports an emoji.add call the server accepted but
// answered with an operation-level error, e.g. a duplicate name.
type RejectedError struct {
	Operation string
	Key       string
	Reason    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("failed to %s %s for reason: %s", e.Operation, e.Key, e.Reason)
}
