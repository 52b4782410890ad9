package game

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var managerLogger = logging.GetZeroLogger("game::manager", nil)

// Manager owns the live games of this process and the adapters and stores
// they share.
type Manager struct {
	lock        sync.Mutex
	activeGames map[string]*Game

	delays  Delays
	judge   JudgeAdapter
	advisor MoveAdapter
	history ActionHistoryStore
	sinks   []ActionLogSink
}

func NewManager(delays Delays, judge JudgeAdapter, advisor MoveAdapter, history ActionHistoryStore, sinks ...ActionLogSink) *Manager {
	return &Manager{
		activeGames: make(map[string]*Game),
		delays:      delays,
		judge:       judge,
		advisor:     advisor,
		history:     history,
		sinks:       sinks,
	}
}

// NewGame creates, registers, and starts a game. An empty GameCode gets a
// generated one.
func (m *Manager) NewGame(config *GameConfig) (*Game, error) {
	if config.GameCode == "" {
		config.GameCode = newGameCode()
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if _, exists := m.activeGames[config.GameCode]; exists {
		return nil, fmt.Errorf("game [%s] already exists", config.GameCode)
	}
	g, err := NewGame(config, m.delays, m.judge, m.advisor, m.history, m.sinks...)
	if err != nil {
		return nil, err
	}
	m.activeGames[config.GameCode] = g
	g.Run()
	managerLogger.Info().Str(logging.GameCodeKey, config.GameCode).Msgf("Game created (%s, difficulty %s)", config.Mode, config.Difficulty)
	return g, nil
}

func (m *Manager) GetGame(gameCode string) (*Game, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	g, ok := m.activeGames[gameCode]
	return g, ok
}

// EndGame stops the game loop and drops the game and its history.
func (m *Manager) EndGame(gameCode string) error {
	m.lock.Lock()
	g, ok := m.activeGames[gameCode]
	delete(m.activeGames, gameCode)
	m.lock.Unlock()
	if !ok {
		return fmt.Errorf("game [%s] does not exist", gameCode)
	}
	g.Stop()
	if err := m.history.Remove(gameCode); err != nil {
		managerLogger.Warn().Str(logging.GameCodeKey, gameCode).Msgf("Unable to remove history: %v", err)
	}
	managerLogger.Info().Str(logging.GameCodeKey, gameCode).Msg("Game ended")
	return nil
}

// ActiveCount returns the number of live games.
func (m *Manager) ActiveCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.activeGames)
}

func newGameCode() string {
	id := uuid.New().String()
	return strings.ToUpper(strings.Split(id, "-")[0])
}
