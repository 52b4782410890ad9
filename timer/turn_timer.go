package timer

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var turnTimerLogger = logging.GetZeroLogger("game::turn_timer", nil)

// Purposes a timer can be armed for. The purpose travels back with the
// fired message so the game can route it without keeping side state.
const (
	PurposeNpcDraw        string = "NPC_DRAW"
	PurposeNpcAction      string = "NPC_ACTION"
	PurposeRobWindow      string = "ROB_WINDOW"
	PurposeChallengeTick  string = "CHALLENGE_TICK"
	PurposeTurnAdvance    string = "TURN_ADVANCE"
	PurposeRoundReset     string = "ROUND_RESET"
)

// TimerMsg arms the timer and is delivered back on expiry. Seq is the
// turn-state sequence number the timer was armed under; a fire whose Seq
// no longer matches the live state must be treated as a no-op by the
// receiver.
type TimerMsg struct {
	Purpose     string
	PlayerIndex uint32
	Round       uint32
	Seq         uint64
	ExpireAt    time.Time

	// Countdown mode. When TicksRemaining > 0 the timer fires a tick
	// callback every TickInterval, decrementing TicksRemaining, and the
	// expiry callback fires when the count reaches zero.
	TickInterval   time.Duration
	TicksRemaining uint32
}

// TurnTimer runs the phase timers of one game. At most one timer is armed
// at a time; arming a new one supersedes the previous.
type TurnTimer struct {
	gameCode string

	chReset   chan TimerMsg
	chPause   chan bool
	chEndLoop chan bool

	expiredCallback func(TimerMsg)
	tickCallback    func(TimerMsg)
	currentTimerMsg TimerMsg

	crashHandler func()
}

func NewTurnTimer(gameCode string, expiredCallback func(TimerMsg), tickCallback func(TimerMsg), crashHandler func()) *TurnTimer {
	t := TurnTimer{
		gameCode:        gameCode,
		chReset:         make(chan TimerMsg),
		chPause:         make(chan bool),
		chEndLoop:       make(chan bool, 10),
		expiredCallback: expiredCallback,
		tickCallback:    tickCallback,
		crashHandler:    crashHandler,
	}
	return &t
}

func (t *TurnTimer) Run() {
	go t.loop()
}

func (t *TurnTimer) Destroy() {
	t.chEndLoop <- true
}

func (t *TurnTimer) loop() {
	defer func() {
		err := recover()
		if err != nil {
			// Panic occurred.
			debug.PrintStack()
			turnTimerLogger.Error().
				Str(logging.GameCodeKey, t.gameCode).
				Msgf("Turn timer loop returning due to panic: %s\nStack Trace:\n%s", err, string(debug.Stack()))
			if t.crashHandler != nil {
				t.crashHandler()
			}
		} else {
			turnTimerLogger.Info().Str(logging.GameCodeKey, t.gameCode).Msg("Turn timer loop returning")
		}
	}()

	var expirationTime time.Time
	var nextTickAt time.Time
	paused := true
	for {
		select {
		case <-t.chEndLoop:
			return
		case <-t.chPause:
			paused = true
		case msg := <-t.chReset:
			// Start the new timer.
			t.currentTimerMsg = msg
			expirationTime = msg.ExpireAt
			if msg.TickInterval > 0 {
				nextTickAt = time.Now().Add(msg.TickInterval)
			}
			paused = false
		default:
			if !paused {
				now := time.Now()
				msg := t.currentTimerMsg
				if msg.TickInterval > 0 && msg.TicksRemaining > 0 && !now.Before(nextTickAt) {
					t.currentTimerMsg.TicksRemaining--
					nextTickAt = nextTickAt.Add(msg.TickInterval)
					if t.tickCallback != nil {
						t.tickCallback(t.currentTimerMsg)
					}
					if t.currentTimerMsg.TicksRemaining == 0 {
						t.expiredCallback(t.currentTimerMsg)
						paused = true
					}
				} else if msg.TickInterval == 0 && !now.Before(expirationTime) {
					t.expiredCallback(t.currentTimerMsg)
					expirationTime = time.Time{}
					paused = true
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func (t *TurnTimer) Pause() {
	t.chPause <- true
}

// Reset arms the timer. For a one-shot timer ExpireAt must be set; for a
// countdown both TickInterval and TicksRemaining must be set.
func (t *TurnTimer) Reset(msg TimerMsg) error {
	var errMsgs []string
	if msg.Purpose == "" {
		errMsgs = append(errMsgs, "invalid purpose")
	}
	if msg.TickInterval == 0 && time.Time.IsZero(msg.ExpireAt) {
		errMsgs = append(errMsgs, "invalid expireAt")
	}
	if msg.TickInterval > 0 && msg.TicksRemaining == 0 {
		errMsgs = append(errMsgs, "invalid ticksRemaining")
	}
	if len(errMsgs) > 0 {
		return fmt.Errorf(strings.Join(errMsgs, "; "))
	}
	t.chReset <- msg
	return nil
}

func (t *TurnTimer) GetCurrentTimerMsg() TimerMsg {
	return t.currentTimerMsg
}
