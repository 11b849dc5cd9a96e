package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/exp/rand"
)

// QTable stores one value per action for every visited state.
type QTable map[string][]float64

// Agent is a tabular Q-learner with an epsilon-greedy policy.
type Agent struct {
	QTable         QTable
	LearningRate   float64
	Discount       float64
	Epsilon        float64
	InitialEpsilon float64
	MinEpsilon     float64
	EpsilonDecay   float64
	Episodes       int

	numActions int
	rng        *rand.Rand
}

// NewAgent starts with high exploration that decays once per finished episode.
func NewAgent(numActions int, rng *rand.Rand) *Agent {
	return &Agent{
		QTable:         make(QTable),
		LearningRate:   0.1,
		Discount:       0.9,
		Epsilon:        0.9,
		InitialEpsilon: 0.9,
		MinEpsilon:     0.05,
		EpsilonDecay:   0.995,
		numActions:     numActions,
		rng:            rng,
	}
}

// Action picks a random action with probability Epsilon, the best known one otherwise.
func (a *Agent) Action(state string) int {
	if a.rng.Float64() < a.Epsilon {
		return a.rng.Intn(a.numActions)
	}
	return a.BestAction(state)
}

// BestAction returns the highest valued action. Ties go to the lowest index.
func (a *Agent) BestAction(state string) int {
	values := a.values(state)
	best := 0
	for action, q := range values {
		if q > values[best] {
			best = action
		}
	}
	return best
}

// Update applies Q(s,a) += lr * (r + discount * max Q(s') - Q(s,a)).
// A terminal transition has no future value.
func (a *Agent) Update(state string, action int, reward float64, next string, terminal bool) {
	future := 0.0
	if !terminal {
		future = a.maxValue(next)
	}
	values := a.values(state)
	values[action] += a.LearningRate * (reward + a.Discount*future - values[action])
}

// EndEpisode counts a finished game and decays exploration.
func (a *Agent) EndEpisode() {
	a.Episodes++
	a.Epsilon = math.Max(a.MinEpsilon, a.InitialEpsilon*math.Pow(a.EpsilonDecay, float64(a.Episodes)))
}

func (a *Agent) values(state string) []float64 {
	values, ok := a.QTable[state]
	if !ok || len(values) != a.numActions {
		values = make([]float64, a.numActions)
		a.QTable[state] = values
	}
	return values
}

func (a *Agent) maxValue(state string) float64 {
	values, ok := a.QTable[state]
	if !ok {
		return 0
	}
	best := math.Inf(-1)
	for _, q := range values {
		best = math.Max(best, q)
	}
	return best
}

// agentState is the on-disk form of an Agent.
type agentState struct {
	QTable   QTable  `json:"qtable"`
	Epsilon  float64 `json:"epsilon"`
	Episodes int     `json:"episodes"`
}

// Save writes the table and exploration state as JSON, creating parent directories.
func (a *Agent) Save(filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create Q-table directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(agentState{
		QTable:   a.QTable,
		Epsilon:  a.Epsilon,
		Episodes: a.Episodes,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal Q-table: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write Q-table: %w", err)
	}
	return nil
}

// Load restores a saved agent. A missing file leaves the fresh table in place.
func (a *Agent) Load(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read Q-table: %w", err)
	}

	var state agentState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to unmarshal Q-table: %w", err)
	}

	if state.QTable != nil {
		a.QTable = state.QTable
		a.Epsilon = state.Epsilon
		a.Episodes = state.Episodes
	}
	return nil
}
