package util

import (
	"math/rand"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

// GetRandomInt returns a random integer in range [min, max].
func GetRandomInt(min int, max int) int {
	return rand.Intn(max-min+1) + min
}

// GetRandomUint32 returns a random integer in range [min, max].
func GetRandomUint32(min uint32, max uint32) uint32 {
	return min + rand.Uint32()%(max-min+1)
}

// GetRandomMilliseconds returns random time.Duration milliseconds.
func GetRandomMilliseconds(min int, max int) time.Duration {
	ri := GetRandomInt(min, max)
	return time.Duration(ri) * time.Millisecond
}

// FlipCoin returns true roughly half the time.
func FlipCoin() bool {
	return rand.Intn(2) == 0
}
