package user

import "fmt"

// Write verbs used in repository failure messages.
const (
	verbCreate = "create"
	verbUpdate = "update"
	verbDelete = "delete"
)

func writeFailureMessage(verb string) string {
	preposition := "in"
	if verb == verbDelete {
		preposition = "from"
	}
	return fmt.Sprintf("Failed to %s user %s database", verb, preposition)
}

// WriteError wraps a storage failure on a write path. Its message is
// the generic "Failed to <verb> user in/from database" string; the
// driver error stays internal and is only reachable via Unwrap for
// logging.
type WriteError struct {
	verb  string
	cause error
}

func (e *WriteError) Error() string {
	return writeFailureMessage(e.verb)
}

func (e *WriteError) Unwrap() error {
	return e.cause
}

// DuplicateError reports a unique-constraint violation on email or
// username. Field names the offending column. The message stays
// generic so constraint details never reach a caller as text.
type DuplicateError struct {
	Field string
	verb  string
}

func (e *DuplicateError) Error() string {
	return writeFailureMessage(e.verb)
}
