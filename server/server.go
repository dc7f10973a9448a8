// Package server exposes live battle analysis over HTTP: session
// management, state and report reads, and an SSE stream of per-turn
// reports.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"showdown-scout/client"
	"showdown-scout/config"
	"showdown-scout/data"
	"showdown-scout/store"
	"showdown-scout/tracker"
)

type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	dex      *data.Dex
	repo     store.Repository
	ws       *client.Client
	sessions *registry
	router   *gin.Engine
}

// New wires the HTTP surface. ws may be nil; sessions then only accept
// lines fed over HTTP. repo may be nil; finished battles are then not
// archived and the /api/reports endpoints answer 503.
func New(cfg *config.Config, log *zap.Logger, dex *data.Dex, repo store.Repository, ws *client.Client) *Server {
	s := &Server{
		cfg:      cfg,
		log:      log,
		dex:      dex,
		repo:     repo,
		ws:       ws,
		sessions: newRegistry(),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.Server.AllowOrigins
	if len(corsCfg.AllowOrigins) == 1 && corsCfg.AllowOrigins[0] == "*" {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	{
		api.POST("/battles", s.createBattle)
		api.GET("/battles", s.listBattles)
		api.GET("/battles/:id/state", s.battleState)
		api.GET("/battles/:id/report", s.battleReport)
		api.GET("/battles/:id/stream", s.battleStream)
		api.POST("/battles/:id/log", s.feedLog)
		api.DELETE("/battles/:id", s.deleteBattle)

		api.GET("/reports", s.listReports)
		api.GET("/reports/:id", s.getReport)
		api.DELETE("/reports/:id", s.deleteReport)
	}
	s.router = r
	return s
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) ListenAndServe() error {
	s.log.Info("serving", zap.String("addr", s.cfg.Server.Addr))
	return s.router.Run(s.cfg.Server.Addr)
}

// HandleObservation and HandleBattleEnd make the server the websocket
// client's sink.
func (s *Server) HandleObservation(roomID string, obs tracker.Observation) {
	if sess, ok := s.sessions.forRoom(roomID); ok {
		sess.Apply(obs)
	}
}

func (s *Server) HandleBattleEnd(roomID, winner string) {
	sess, ok := s.sessions.forRoom(roomID)
	if !ok {
		return
	}
	s.archive(sess, winner)
}

func (s *Server) archive(sess *Session, winner string) {
	if s.repo == nil {
		return
	}
	selfTeam, oppTeam := sess.teams()
	report := &store.BattleReport{
		SessionID:     sess.ID,
		RoomID:        sess.RoomID,
		SelfPlayer:    s.cfg.Showdown.Username,
		Opponent:      sess.opponentName(),
		Winner:        winner,
		Turns:         sess.Snapshot().Turn,
		SelfTeam:      selfTeam,
		OpponentTeam:  oppTeam,
		FinalAnalysis: sess.finalAnalysis(),
	}
	if err := s.repo.Create(context.Background(), report); err != nil {
		s.log.Warn("archive failed", zap.String("room", sess.RoomID), zap.Error(err))
		return
	}
	s.log.Info("battle archived",
		zap.String("room", sess.RoomID), zap.Uint("report", report.ID))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createBattleRequest struct {
	RoomID string `json:"roomId"`
}

func (s *Server) createBattle(c *gin.Context) {
	var req createBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.RoomID != "" {
		if _, exists := s.sessions.forRoom(req.RoomID); exists {
			c.JSON(http.StatusConflict, gin.H{"error": "room already tracked"})
			return
		}
	}

	sess := newSession(req.RoomID, s.cfg.Showdown.Username, s.dex, s.log)
	s.sessions.add(sess)
	if req.RoomID != "" && s.ws != nil {
		if err := s.ws.JoinRoom(req.RoomID); err != nil {
			s.log.Warn("join failed", zap.String("room", req.RoomID), zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) listBattles(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.list())
}

func (s *Server) battleState(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

func (s *Server) battleReport(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess.Report())
}

// battleStream pushes a report after every turn marker and decision menu.
func (s *Server) battleStream(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	ch := sess.Subscribe()
	defer sess.Unsubscribe(ch)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("report", sess.Report())
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		select {
		case report, open := <-ch:
			if !open {
				return false
			}
			c.SSEvent("report", report)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

type feedLogRequest struct {
	Lines []string `json:"lines"`
}

// feedLog accepts raw protocol lines, for replaying saved logs or driving
// a session without a live connection.
func (s *Server) feedLog(c *gin.Context) {
	sess, ok := s.sessions.get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	var req feedLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess.Feed(req.Lines)
	c.JSON(http.StatusOK, gin.H{"applied": len(req.Lines)})
}

func (s *Server) deleteBattle(c *gin.Context) {
	sess, ok := s.sessions.remove(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if sess.RoomID != "" && s.ws != nil {
		if err := s.ws.LeaveRoom(sess.RoomID); err != nil {
			s.log.Warn("leave failed", zap.String("room", sess.RoomID), zap.Error(err))
		}
	}
	c.Status(http.StatusNoContent)
}

// repoReady rejects archive requests when no store is configured.
func (s *Server) repoReady(c *gin.Context) bool {
	if s.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report store not configured"})
		return false
	}
	return true
}

func (s *Server) listReports(c *gin.Context) {
	if !s.repoReady(c) {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if opponent := c.Query("opponent"); opponent != "" {
		reports, err := s.repo.ListByOpponent(c.Request.Context(), opponent)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, reports)
		return
	}
	reports, err := s.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (s *Server) getReport(c *gin.Context) {
	if !s.repoReady(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	report, err := s.repo.GetByID(c.Request.Context(), uint(id))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) deleteReport(c *gin.Context) {
	if !s.repoReady(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	err = s.repo.Delete(c.Request.Context(), uint(id))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
