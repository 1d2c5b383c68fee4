package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Audit actions recorded for story review.
const (
	ActionStoryIngested  = "story.ingested"
	ActionStoryUpdated   = "story.updated"
	ActionStoryApproved  = "story.approved"
	ActionStoryRejected  = "story.rejected"
	ActionStoryPublished = "story.published"
)

// Event is one entry of the review audit trail. Entries are chained: each
// carries the hash of its predecessor.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	PrevHash  string                 `json:"prev_hash,omitempty"`
	Hash      string                 `json:"hash,omitempty"`
}

// StoryID returns the story the event refers to, if any.
func (e Event) StoryID() string {
	id, _ := e.Metadata["story_id"].(string)
	return id
}

// CalculateHash returns the SHA-256 over the chained fields of the event.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	for _, part := range []string{
		e.PrevHash,
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.Action,
		e.Actor,
		canonicalJSON(e.Metadata),
	} {
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON renders metadata with sorted keys.
func canonicalJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(k)
		val, _ := json.Marshal(m[k])
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String()
}
