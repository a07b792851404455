package store

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// usageDateLayout keys ledger rows by calendar day.
const usageDateLayout = "2006-01-02"

// UsageRecord accumulates request and token counters for one
// (day, token, config) combination. Only a one-way hash of the token is
// used for keying and only a mask of it is stored on disk.
type UsageRecord struct {
	TokenMask   string `json:"tokenMask"`
	ConfigID    int    `json:"configId,omitempty"`
	Name        string `json:"name,omitempty"`
	Model       string `json:"model,omitempty"`
	Google      bool   `json:"google"`
	Requests    int64  `json:"requests"`
	TotalTokens int64  `json:"totalTokens"`
}

// UsageEntry is one flattened ledger row as served by the API.
type UsageEntry struct {
	Date string `json:"date"`
	UsageRecord
}

// FirstTokenLine returns the first non-blank line of a token field.
// Token fields may hold several newline-delimited keys; no rotation
// happens, the first key serves every request.
func FirstTokenLine(token string) string {
	for _, line := range strings.Split(token, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// MaskToken renders a display-safe form of a secret, keeping only a
// short prefix and suffix. Short tokens are fully starred.
func MaskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func (s *Store) loadUsage() {
	s.readJSON(s.usagePath(), &s.usage)
	// A file holding the literal null decodes into a nil map.
	if s.usage == nil {
		s.usage = make(map[string]map[string]*UsageRecord)
	}
}

// RecordUsage accumulates one completed provider call against the
// configuration that served it. Non-positive token totals contribute
// zero.
func (s *Store) RecordUsage(cfg APIConfig, totalTokens int64) {
	s.recordUsageAt(time.Now().UTC().Format(usageDateLayout), cfg, totalTokens)
}

func (s *Store) recordUsageAt(date string, cfg APIConfig, totalTokens int64) {
	token := FirstTokenLine(cfg.Token)
	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])
	if cfg.ID > 0 {
		key += ":" + strconv.Itoa(cfg.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.usage[date]
	if day == nil {
		day = make(map[string]*UsageRecord)
		s.usage[date] = day
	}
	rec := day[key]
	if rec == nil {
		rec = &UsageRecord{}
		day[key] = rec
	}
	rec.TokenMask = MaskToken(token)
	rec.ConfigID = cfg.ID
	rec.Name = cfg.Name
	rec.Model = cfg.Model
	rec.Google = cfg.Google
	rec.Requests++
	if totalTokens > 0 {
		rec.TotalTokens += totalTokens
	}
	s.persistUsage()
}

// UsageEntries flattens the ledger, newest day first.
func (s *Store) UsageEntries() []UsageEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UsageEntry, 0, len(s.usage))
	for date, day := range s.usage {
		for _, rec := range day {
			out = append(out, UsageEntry{Date: date, UsageRecord: *rec})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].TokenMask != out[j].TokenMask {
			return out[i].TokenMask < out[j].TokenMask
		}
		return out[i].ConfigID < out[j].ConfigID
	})
	return out
}

// persistUsage must be called with the write lock held.
func (s *Store) persistUsage() {
	s.writeJSON(s.usagePath(), s.usage)
}
