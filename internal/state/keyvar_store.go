package state

import (
	"sort"
	"strings"
	"sync"
	"time"

	"hubmsg/internal/keyvalue"
)

// KeyVar is the latest value of one actor keyword.
type KeyVar struct {
	Actor   string    `json:"actor"`
	Keyword string    `json:"keyword"`
	Values  []string  `json:"values"`
	MsgType string    `json:"msg_type"`
	Cmdr    string    `json:"cmdr"`
	CmdID   int       `json:"cmd_id"`
	Updated time.Time `json:"updated"`
}

// Key is the lookup key for a KeyVar: lower-cased "actor.keyword".
func (kv KeyVar) Key() string { return Key(kv.Actor, kv.Keyword) }

func Key(actor, keyword string) string {
	return strings.ToLower(actor) + "." + strings.ToLower(keyword)
}

type KeyVarStore struct {
	mu   sync.RWMutex
	vars map[string]KeyVar
}

func NewKeyVarStore() *KeyVarStore {
	return &KeyVarStore{vars: map[string]KeyVar{}}
}

// Apply records every keyword of r. It returns the number of keywords stored.
func (s *KeyVarStore) Apply(r keyvalue.Reply, now time.Time) int {
	if r.Body.Len() == 0 {
		return 0
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kw := range r.Body.Keywords {
		kv := KeyVar{
			Actor:   r.Header.Actor,
			Keyword: kw.Name,
			Values:  append([]string(nil), kw.Values...),
			MsgType: r.Header.Type,
			Cmdr:    r.Header.Cmdr,
			CmdID:   r.Header.CmdID,
			Updated: now,
		}
		s.vars[kv.Key()] = kv
	}
	return r.Body.Len()
}

// Get looks up a keyword; actor and keyword are matched case-insensitively.
func (s *KeyVarStore) Get(actor, keyword string) (KeyVar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kv, ok := s.vars[Key(actor, keyword)]
	return kv, ok
}

func (s *KeyVarStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vars)
}

// ActorCount counts distinct actors with at least one stored keyword.
func (s *KeyVarStore) ActorCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, kv := range s.vars {
		seen[strings.ToLower(kv.Actor)] = struct{}{}
	}
	return len(seen)
}

// Snapshot returns every KeyVar sorted by key.
func (s *KeyVarStore) Snapshot() []KeyVar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]KeyVar, 0, len(s.vars))
	for _, kv := range s.vars {
		out = append(out, kv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Restore loads vars, keeping any entry already present that is newer.
func (s *KeyVarStore) Restore(vars []KeyVar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kv := range vars {
		if cur, ok := s.vars[kv.Key()]; ok && cur.Updated.After(kv.Updated) {
			continue
		}
		s.vars[kv.Key()] = kv
	}
}

// DropActor forgets all keywords of actor and returns how many were removed.
// Actor names may contain dots, so "mcp" does not match "mcp.sop".
func (s *KeyVarStore) DropActor(actor string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, kv := range s.vars {
		if strings.EqualFold(kv.Actor, actor) {
			delete(s.vars, k)
			n++
		}
	}
	return n
}
