// REST endpoints for driving games from a browser client.
package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokmatthew213-hub/fyp-game-new/game"
	"github.com/lokmatthew213-hub/fyp-game-new/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)

type Server struct {
	manager *game.Manager
}

type newGameReq struct {
	Mode         string `json:"mode"`
	Difficulty   string `json:"difficulty"`
	NpcDriver    string `json:"npcDriver"`
	ClaimPolicy  string `json:"claimPolicy"`
	WinThreshold int    `json:"winThreshold"`
}

type drawReq struct {
	Kind string `json:"kind" binding:"required"`
}

type moveToSlotReq struct {
	CardID    string `json:"cardId" binding:"required"`
	SlotIndex *int   `json:"slotIndex"`
	WildLabel string `json:"wildLabel"`
}

type slotReq struct {
	SlotIndex int `json:"slotIndex"`
}

type cardReq struct {
	CardID string `json:"cardId" binding:"required"`
}

type playerReq struct {
	PlayerIndex uint32 `json:"playerIndex"`
}

// RunServer blocks serving the REST API on the given port.
func RunServer(manager *game.Manager, portNo uint) error {
	s := &Server{manager: manager}
	r := gin.Default()

	r.POST("/new-game", s.newGame)
	r.GET("/game/:gameCode", s.snapshot)
	r.GET("/game/:gameCode/history", s.history)
	r.POST("/game/:gameCode/draw", s.draw)
	r.POST("/game/:gameCode/move-to-slot", s.moveToSlot)
	r.POST("/game/:gameCode/return-to-hand", s.returnToHand)
	r.POST("/game/:gameCode/toggle-discard-mode", s.toggleDiscardMode)
	r.POST("/game/:gameCode/discard", s.discard)
	r.POST("/game/:gameCode/submit", s.submit)
	r.POST("/game/:gameCode/rob", s.rob)
	r.POST("/game/:gameCode/buzz", s.buzz)
	r.POST("/game/:gameCode/replenish", s.replenish)
	r.POST("/game/:gameCode/end", s.endGame)

	restLogger.Info().Msgf("Listening on port %d", portNo)
	return r.Run(fmt.Sprintf(":%d", portNo))
}

func (s *Server) lookup(c *gin.Context) (*game.Game, bool) {
	gameCode := c.Param("gameCode")
	g, ok := s.manager.GetGame(gameCode)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("game [%s] not found", gameCode)})
		return nil, false
	}
	return g, true
}

func (s *Server) newGame(c *gin.Context) {
	var req newGameReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config := &game.GameConfig{
		Mode:         game.GameMode(req.Mode),
		Difficulty:   req.Difficulty,
		NpcDriver:    game.NpcDriverKind(req.NpcDriver),
		ClaimPolicy:  game.ClaimPolicy(req.ClaimPolicy),
		WinThreshold: req.WinThreshold,
	}
	if config.Mode == "" {
		config.Mode = game.ModeBattle
	}
	g, err := s.manager.NewGame(config)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

func (s *Server) snapshot(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

func (s *Server) history(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	entries, err := g.History()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (s *Server) draw(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req drawReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	kind := game.CardKindNumber
	if req.Kind == string(game.CardKindWord) || req.Kind == "word" {
		kind = game.CardKindWord
	}
	g.DrawCard(kind)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) moveToSlot(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req moveToSlotReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slotIndex := -1
	if req.SlotIndex != nil {
		slotIndex = *req.SlotIndex
	}
	g.MoveToSlot(req.CardID, slotIndex, req.WildLabel)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) returnToHand(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req slotReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.ReturnToHand(req.SlotIndex)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) toggleDiscardMode(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	g.ToggleDiscardMode()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) discard(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req cardReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.Discard(req.CardID)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) submit(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	g.Submit()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) rob(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req playerReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.Rob(req.PlayerIndex)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) buzz(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	var req playerReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.Buzz(req.PlayerIndex)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) replenish(c *gin.Context) {
	g, ok := s.lookup(c)
	if !ok {
		return
	}
	g.ReplenishHands()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) endGame(c *gin.Context) {
	gameCode := c.Param("gameCode")
	if err := s.manager.EndGame(gameCode); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}
