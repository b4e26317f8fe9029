package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bsumme/odds-price-alert/pkg/contracts"
	"github.com/bsumme/odds-price-alert/pkg/models"
)

// ReplayLog appends every real provider payload to a JSONL file so captured
// responses can be compared against the synthetic generator later. Capture
// is best effort: any failure is logged and swallowed, and the fetch path
// never waits on more than the append itself.
type ReplayLog struct {
	mu   sync.Mutex
	path string
}

type replayRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	SportKey  string         `json:"sport_key"`
	Regions   string         `json:"regions"`
	Markets   []string       `json:"markets"`
	Books     []string       `json:"books"`
	Events    []models.Event `json:"events"`
}

// NewReplayLog captures to the given path, creating parent directories on
// first write.
func NewReplayLog(path string) *ReplayLog {
	return &ReplayLog{path: path}
}

// Record appends one fetched payload as a single JSONL line.
func (l *ReplayLog) Record(req contracts.FetchRequest, events []models.Event) {
	record := replayRecord{
		Timestamp: time.Now().UTC(),
		SportKey:  req.SportKey,
		Regions:   req.Regions,
		Markets:   req.Markets,
		Books:     req.Books,
		Events:    events,
	}

	data, err := json.Marshal(record)
	if err != nil {
		fmt.Printf("⚠️  Replay log marshal failed: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("⚠️  Replay log directory: %v\n", err)
			return
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Printf("⚠️  Replay log open failed: %v\n", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		fmt.Printf("⚠️  Replay log write failed: %v\n", err)
	}
}
