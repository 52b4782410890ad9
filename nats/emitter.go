// Package nats forwards battle log entries to interested subscribers.
package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"

	"github.com/lokmatthew213-hub/fyp-game-new/game"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var natsLogger = logging.GetZeroLogger("nats::emitter", nil)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LogEmitter publishes every battle log entry to the subject
// percentbattle.<gameCode>.log. Delivery is fire and forget; a publish
// failure never blocks the game.
type LogEmitter struct {
	nc *natsgo.Conn
}

func NewLogEmitter(natsURL string) (*LogEmitter, error) {
	nc, err := natsgo.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &LogEmitter{nc: nc}, nil
}

func logSubject(gameCode string) string {
	return fmt.Sprintf("percentbattle.%s.log", gameCode)
}

func (e *LogEmitter) Emit(gameCode string, entry game.ActionLogEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		natsLogger.Error().Str(logging.GameCodeKey, gameCode).Msgf("Unable to marshal log entry: %v", err)
		return
	}
	if err := e.nc.Publish(logSubject(gameCode), data); err != nil {
		natsLogger.Error().Str(logging.GameCodeKey, gameCode).Msgf("Unable to publish log entry: %v", err)
	}
}

func (e *LogEmitter) Close() {
	e.nc.Close()
}
