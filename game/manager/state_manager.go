package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MaxHistory is the number of finished games kept on disk
const MaxHistory = 200

// GameRecord is one finished game.
type GameRecord struct {
	SessionID string    `json:"sessionId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	Outcome   string    `json:"outcome"`
}

// Duration is how long the game lasted.
func (r GameRecord) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

type GameStats struct {
	HighScore    int          `json:"highScore"`
	GamesPlayed  int          `json:"gamesPlayed"`
	ScoreHistory []GameRecord `json:"scoreHistory"`
}

// StateManager keeps the high score and recent games, persisted as JSON.
// An empty path keeps everything in memory.
type StateManager struct {
	path  string
	mutex sync.RWMutex
	stats GameStats
}

func NewStateManager(path string) *StateManager {
	return &StateManager{
		path:  path,
		stats: GameStats{ScoreHistory: make([]GameRecord, 0)},
	}
}

// Load reads the stats file. A missing file leaves the statistics empty.
func (sm *StateManager) Load() error {
	if sm.path == "" {
		return nil
	}

	data, err := os.ReadFile(sm.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var stats GameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return fmt.Errorf("failed to decode stats file %s: %w", sm.path, err)
	}
	if stats.ScoreHistory == nil {
		stats.ScoreHistory = make([]GameRecord, 0)
	}

	sm.mutex.Lock()
	sm.stats = stats
	sm.mutex.Unlock()
	return nil
}

func (sm *StateManager) Save() error {
	if sm.path == "" {
		return nil
	}

	sm.mutex.RLock()
	data, err := json.MarshalIndent(sm.stats, "", "  ")
	sm.mutex.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	if dir := filepath.Dir(sm.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(sm.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write stats file: %w", err)
	}
	return nil
}

// Record adds a finished game and persists the result.
func (sm *StateManager) Record(rec GameRecord) error {
	sm.mutex.Lock()
	if rec.Score > sm.stats.HighScore {
		sm.stats.HighScore = rec.Score
	}
	sm.stats.GamesPlayed++
	if len(sm.stats.ScoreHistory) >= MaxHistory {
		sm.stats.ScoreHistory = sm.stats.ScoreHistory[1:]
	}
	sm.stats.ScoreHistory = append(sm.stats.ScoreHistory, rec)
	sm.mutex.Unlock()

	return sm.Save()
}

func (sm *StateManager) HighScore() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stats.HighScore
}

func (sm *StateManager) GamesPlayed() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stats.GamesPlayed
}

// History returns a copy of the kept records, oldest first.
func (sm *StateManager) History() []GameRecord {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	history := make([]GameRecord, len(sm.stats.ScoreHistory))
	copy(history, sm.stats.ScoreHistory)
	return history
}

// AverageScore is the mean score over the kept history.
func (sm *StateManager) AverageScore() float64 {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	if len(sm.stats.ScoreHistory) == 0 {
		return 0
	}
	total := 0
	for _, rec := range sm.stats.ScoreHistory {
		total += rec.Score
	}
	return float64(total) / float64(len(sm.stats.ScoreHistory))
}

// AverageDuration is the mean game length over the kept history.
func (sm *StateManager) AverageDuration() time.Duration {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	if len(sm.stats.ScoreHistory) == 0 {
		return 0
	}
	var total time.Duration
	for _, rec := range sm.stats.ScoreHistory {
		total += rec.Duration()
	}
	return total / time.Duration(len(sm.stats.ScoreHistory))
}
