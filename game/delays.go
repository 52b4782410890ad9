package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays holds every timing knob of the turn machine, in milliseconds.
type Delays struct {
	NpcDrawLow       uint32 `yaml:"npcDrawLow"`
	NpcDrawMedium    uint32 `yaml:"npcDrawMedium"`
	NpcDrawHigh      uint32 `yaml:"npcDrawHigh"`
	NpcActionLow     uint32 `yaml:"npcActionLow"`
	NpcActionMedium  uint32 `yaml:"npcActionMedium"`
	NpcActionHigh    uint32 `yaml:"npcActionHigh"`
	RobWindow        uint32 `yaml:"robWindow"`
	ChallengeTick    uint32 `yaml:"challengeTick"`
	TurnAdvance      uint32 `yaml:"turnAdvance"`
	RoundReset       uint32 `yaml:"roundReset"`
	BuzzReset        uint32 `yaml:"buzzReset"`
	ErrorEnd         uint32 `yaml:"errorEnd"`
}

// DefaultDelays mirrors the original game's timing.
func DefaultDelays() Delays {
	return Delays{
		NpcDrawLow:      2200,
		NpcDrawMedium:   1500,
		NpcDrawHigh:     800,
		NpcActionLow:    2200,
		NpcActionMedium: 1500,
		NpcActionHigh:   800,
		RobWindow:       2500,
		ChallengeTick:   1000,
		TurnAdvance:     1500,
		RoundReset:      2500,
		BuzzReset:       2000,
		ErrorEnd:        2000,
	}
}

// TestDelays compresses every window so the machine can be driven through
// full turns in milliseconds.
func TestDelays() Delays {
	return Delays{
		NpcDrawLow:      1,
		NpcDrawMedium:   1,
		NpcDrawHigh:     1,
		NpcActionLow:    1,
		NpcActionMedium: 1,
		NpcActionHigh:   1,
		RobWindow:       20,
		ChallengeTick:   5,
		TurnAdvance:     1,
		RoundReset:      1,
		BuzzReset:       1,
		ErrorEnd:        1,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := ioutil.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	var data Delays
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}

func (d Delays) npcDraw(difficulty string) uint32 {
	switch difficulty {
	case "LOW":
		return d.NpcDrawLow
	case "HIGH":
		return d.NpcDrawHigh
	default:
		return d.NpcDrawMedium
	}
}

func (d Delays) npcAction(difficulty string) uint32 {
	switch difficulty {
	case "LOW":
		return d.NpcActionLow
	case "HIGH":
		return d.NpcActionHigh
	default:
		return d.NpcActionMedium
	}
}
