package hashchain

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// GenesisHash is the sentinel prevHash for the first posted entry.
const GenesisHash = "0"

// Hasher computes the keyed chain hash for posted journal entries. The key
// must stay stable for the system's lifetime: hashes computed under a
// different key can no longer be verified.
type Hasher struct {
	secret []byte
}

// New creates a Hasher with the given process-wide secret.
func New(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// EntryHash computes the HMAC-SHA256 over the entry's canonical content and
// its prevHash. The payload uses a fixed field order with explicit
// separators rather than serialized structs, so any implementation can
// reproduce it byte for byte:
//
//	entryNumber \n date(RFC3339, UTC) \n description \n
//	accountID | debit | credit | lineDescription \n   (per line, in order)
//	prevHash
func (h *Hasher) EntryHash(entry domain.JournalEntry) string {
	var b strings.Builder
	b.WriteString(entry.EntryNumber)
	b.WriteByte('\n')
	b.WriteString(entry.EntryDate.UTC().Format(time.RFC3339))
	b.WriteByte('\n')
	b.WriteString(entry.Description)
	b.WriteByte('\n')
	for _, line := range entry.Lines {
		b.WriteString(line.AccountID)
		b.WriteByte('|')
		b.WriteString(line.Debit.String())
		b.WriteByte('|')
		b.WriteString(line.Credit.String())
		b.WriteByte('|')
		b.WriteString(line.Description)
		b.WriteByte('\n')
	}
	b.WriteString(entry.PrevHash)

	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
