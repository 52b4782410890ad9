package main

import (
	"fmt"
	"os"

	"github.com/lokmatthew213-hub/fyp-game-new/ai"
	"github.com/lokmatthew213-hub/fyp-game-new/game"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
	"github.com/lokmatthew213-hub/fyp-game-new/nats"
	"github.com/lokmatthew213-hub/fyp-game-new/rest"
	"github.com/lokmatthew213-hub/fyp-game-new/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

const delaysFile = "delays.yaml"

func main() {
	logging.Init()

	delays := loadDelays()
	if util.GameServerEnvironment.ShouldDisableDelays() {
		mainLogger.Info().Msg("Delays disabled; using compressed timings")
		delays = game.TestDelays()
	}

	client := ai.NewClient(ai.Config{
		Endpoint: util.GameServerEnvironment.GetJudgeAPIUrl(),
		APIKey:   util.GameServerEnvironment.GetJudgeAPIKey(),
		Model:    util.GameServerEnvironment.GetJudgeModel(),
	})
	judge := ai.NewJudge(client)
	advisor := ai.NewAdvisor(client)

	history := buildHistoryStore()

	var sinks []game.ActionLogSink
	if natsURL := util.GameServerEnvironment.GetNatsURL(); natsURL != "" {
		emitter, err := nats.NewLogEmitter(natsURL)
		if err != nil {
			mainLogger.Error().Msgf("Unable to connect to NATS at %s: %v. Continuing without log emitter.", natsURL, err)
		} else {
			defer emitter.Close()
			sinks = append(sinks, emitter)
		}
	}

	manager := game.NewManager(delays, judge, advisor, history, sinks...)

	portNo := uint(util.GameServerEnvironment.GetRestPort())
	if err := rest.RunServer(manager, portNo); err != nil {
		mainLogger.Error().Msgf("REST server exited: %v", err)
		os.Exit(1)
	}
}

func loadDelays() game.Delays {
	delays, err := game.ParseDelayConfig(delaysFile)
	if err != nil {
		mainLogger.Warn().Msgf("Unable to load %s (%v); using default delays", delaysFile, err)
		return game.DefaultDelays()
	}
	return delays
}

func buildHistoryStore() game.ActionHistoryStore {
	method := util.GameServerEnvironment.GetPersistMethod()
	switch method {
	case "memory":
		return game.NewMemoryHistoryStore()
	case "redis":
		addr := fmt.Sprintf("%s:%d", util.GameServerEnvironment.GetRedisHost(), util.GameServerEnvironment.GetRedisPort())
		return game.NewRedisHistoryStore(addr, util.GameServerEnvironment.GetRedisPW(), util.GameServerEnvironment.GetRedisDB())
	default:
		mainLogger.Warn().Msgf("Unknown persist method [%s]; falling back to memory", method)
		return game.NewMemoryHistoryStore()
	}
}
