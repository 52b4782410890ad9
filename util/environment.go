package util

import (
	"os"
	"strconv"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var environmentLogger = logging.GetZeroLogger("util::environment", nil)

type gameServerEnvironment struct {
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	JudgeAPIUrl   string
	JudgeAPIKey   string
	JudgeModel    string
	NatsURL       string
	RestPort      string
	DisableDelays string
}

// GameServerEnvironment is a helper object for accessing environment variables.
var GameServerEnvironment = &gameServerEnvironment{
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	JudgeAPIUrl:   "JUDGE_API_URL",
	JudgeAPIKey:   "JUDGE_API_KEY",
	JudgeModel:    "JUDGE_MODEL",
	NatsURL:       "NATS_URL",
	RestPort:      "REST_PORT",
	DisableDelays: "DISABLE_DELAYS",
}

func (g *gameServerEnvironment) GetPersistMethod() string {
	method := os.Getenv(g.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (g *gameServerEnvironment) GetRedisHost() string {
	host := os.Getenv(g.RedisHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func (g *gameServerEnvironment) GetRedisPort() int {
	portStr := os.Getenv(g.RedisPort)
	if portStr == "" {
		return 6379
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid %s value [%s]", g.RedisPort, portStr)
		return 6379
	}
	return portNum
}

func (g *gameServerEnvironment) GetRedisPW() string {
	return os.Getenv(g.RedisPW)
}

func (g *gameServerEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(g.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid %s value [%s]", g.RedisDB, dbStr)
		return 0
	}
	return dbNum
}

func (g *gameServerEnvironment) GetJudgeAPIUrl() string {
	url := os.Getenv(g.JudgeAPIUrl)
	if url == "" {
		return "http://localhost:9501/api/poe/chat/completions"
	}
	return url
}

func (g *gameServerEnvironment) GetJudgeAPIKey() string {
	return os.Getenv(g.JudgeAPIKey)
}

func (g *gameServerEnvironment) GetJudgeModel() string {
	model := os.Getenv(g.JudgeModel)
	if model == "" {
		return "gemini-3-flash"
	}
	return model
}

func (g *gameServerEnvironment) GetNatsURL() string {
	return os.Getenv(g.NatsURL)
}

func (g *gameServerEnvironment) GetRestPort() int {
	portStr := os.Getenv(g.RestPort)
	if portStr == "" {
		return 8080
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		environmentLogger.Error().Msgf("Invalid %s value [%s]", g.RestPort, portStr)
		return 8080
	}
	return portNum
}

func (g *gameServerEnvironment) ShouldDisableDelays() bool {
	v := os.Getenv(g.DisableDelays)
	return v == "1" || v == "true"
}
