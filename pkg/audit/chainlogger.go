// Package audit provides a tamper-evident operations log: each entry's hash
// covers the previous entry's hash, so reordering or rewriting history
// breaks the chain.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Entry is a single audit record.
type Entry struct {
	Seq          uint64 `json:"seq"`
	Timestamp    string `json:"timestamp"`
	PreviousHash string `json:"previous_hash"`
	Event        string `json:"event"`
	Hash         string `json:"hash"`
}

// ChainLogger appends hash-chained audit entries.
type ChainLogger struct {
	mu           sync.Mutex
	seq          uint64
	previousHash string
}

// NewChainLogger creates a logger anchored at a zero hash.
func NewChainLogger() *ChainLogger {
	return &ChainLogger{previousHash: strings.Repeat("0", 64)}
}

// Append records an event and returns the resulting entry.
func (c *ChainLogger) Append(event string) *Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	entry := &Entry{
		Seq:          c.seq,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		PreviousHash: c.previousHash,
		Event:        event,
	}
	entry.Hash = hashEntry(entry.Seq, entry.PreviousHash, entry.Timestamp, entry.Event)
	c.previousHash = entry.Hash
	return entry
}

// VerifyChain reports whether entries form an unbroken hash chain.
func VerifyChain(entries []*Entry) bool {
	for i, entry := range entries {
		if i > 0 && entry.PreviousHash != entries[i-1].Hash {
			return false
		}
		if hashEntry(entry.Seq, entry.PreviousHash, entry.Timestamp, entry.Event) != entry.Hash {
			return false
		}
	}
	return true
}

func hashEntry(seq uint64, prev, ts, event string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%s|%s", seq, prev, ts, event)))
	return hex.EncodeToString(sum[:])
}
