package storage

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"decayd/internal/models"
)

const ledgerPrefix = "ledger/"

// LedgerObserver is notified of every appended entry, in order. The supply
// accountant registers here so its incremental fold can never diverge from
// what was actually persisted.
type LedgerObserver interface {
	Apply(entry *models.LedgerEntry)
}

// LedgerStore is the append-only transaction log. Entries get a monotonic
// sequence number on append and are binary-encoded under keys that sort in
// sequence order, so replay is a single prefix scan.
type LedgerStore struct {
	mu       sync.Mutex
	db       Database
	nextSeq  uint64
	observer LedgerObserver
}

func NewLedgerStore(db Database) (*LedgerStore, error) {
	ls := &LedgerStore{db: db, nextSeq: 1}

	// Recover the next sequence number from the tail of the log.
	err := ls.db.IteratePrefix([]byte(ledgerPrefix), func(key, value []byte) error {
		entry, err := models.DecodeLedgerEntry(bytes.NewReader(value))
		if err != nil {
			return fmt.Errorf("ledger key %s: %w", key, err)
		}
		if entry.Seq >= ls.nextSeq {
			ls.nextSeq = entry.Seq + 1
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ls, nil
}

// SetObserver registers the fold observer. Must be called before the first
// Append; wiring does this once at startup.
func (ls *LedgerStore) SetObserver(obs LedgerObserver) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.observer = obs
}

// Append assigns a sequence number and id, persists the entry and notifies
// the observer. The entry is immutable from this point on.
func (ls *LedgerStore) Append(entry *models.LedgerEntry) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	entry.Seq = ls.nextSeq
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	var buf bytes.Buffer
	if err := models.EncodeLedgerEntry(&buf, entry); err != nil {
		return err
	}
	if err := ls.db.Put(ledgerKey(entry.Seq), buf.Bytes()); err != nil {
		return err
	}
	ls.nextSeq++

	if ls.observer != nil {
		ls.observer.Apply(entry)
	}
	return nil
}

// Replay streams every persisted entry to fn in sequence order.
func (ls *LedgerStore) Replay(fn func(*models.LedgerEntry) error) error {
	return ls.db.IteratePrefix([]byte(ledgerPrefix), func(key, value []byte) error {
		entry, err := models.DecodeLedgerEntry(bytes.NewReader(value))
		if err != nil {
			return fmt.Errorf("ledger key %s: %w", key, err)
		}
		return fn(entry)
	})
}

// Len returns the number of appended entries.
func (ls *LedgerStore) Len() uint64 {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.nextSeq - 1
}

func ledgerKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", ledgerPrefix, seq))
}
