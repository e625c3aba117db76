package domain

// ChainProblem classifies a chain verification failure.
type ChainProblem string

const (
	// ChainBroken means an entry's prevHash does not match the hash of the
	// entry posted before it.
	ChainBroken ChainProblem = "CHAIN_BROKEN"
	// HashMismatch means an entry's stored hash does not match the hash
	// recomputed from its content, signalling possible tampering.
	HashMismatch ChainProblem = "HASH_MISMATCH"
)

// ChainError describes one verification failure. Failures are collected
// into a report rather than returned as errors so one broken link does not
// hide the rest.
type ChainError struct {
	EntryNumber string       `json:"entryNumber"`
	Problem     ChainProblem `json:"problem"`
	Expected    string       `json:"expected"`
	Actual      string       `json:"actual"`
}

// ChainReport is the result of walking the full posted sequence.
type ChainReport struct {
	IsValid      bool         `json:"isValid"`
	TotalEntries int          `json:"totalEntries"`
	Errors       []ChainError `json:"errors"`
}
