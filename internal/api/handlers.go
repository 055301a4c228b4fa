package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/leaderboard"
	"github.com/abhisek/prepdeck/internal/session"
)

type createRequest struct {
	Mode         string `json:"mode" binding:"required"`
	Module       string `json:"moduleId"`
	AssignmentID string `json:"assignmentId"`
	Requested    int    `json:"requested"`
	DisplayName  string `json:"displayName"`
}

type answerRequest struct {
	OptionID string `json:"optionId" binding:"required"`
}

type moduleView struct {
	ID                   catalog.ModuleID `json:"id"`
	Name                 string           `json:"name"`
	DefaultItems         int              `json:"defaultItems"`
	DefaultTimeLimitSecs int              `json:"defaultTimeLimitSeconds"`
}

func userID(c *gin.Context) string {
	return c.GetString("userID")
}

func (s *Server) listModules(c *gin.Context) {
	mods := catalog.All()
	out := make([]moduleView, len(mods))
	for i, m := range mods {
		out[i] = moduleView{ID: m.ID, Name: m.Name, DefaultItems: m.DefaultItems, DefaultTimeLimitSecs: m.DefaultTimeLimitSecs()}
	}
	c.JSON(http.StatusOK, out)
}

// createSession resolves the caller's tier once, builds an engine and loads
// its first module. Sessions that fail to load are not registered.
func (s *Server) createSession(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	mode, err := catalog.ParseMode(req.Mode)
	if err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	uid := userID(c)
	tier, err := s.deps.Entitlements.GetTier(c.Request.Context(), uid)
	if err != nil {
		s.fail(c, fmt.Errorf("resolve tier: %w", err))
		return
	}

	sc := session.SessionContext{UserID: uid, DisplayName: req.DisplayName, Tier: tier}
	eng, err := session.New(session.Config{
		Sampler:        s.deps.Sampler,
		Results:        s.deps.Results,
		Clock:          s.deps.Clock,
		PerItemSeconds: s.deps.PerItemSeconds,
		TickInterval:   s.deps.TickInterval,
		Logger:         s.deps.Logger,
	}, sc, session.Request{
		Mode:         mode,
		Module:       catalog.ModuleID(req.Module),
		AssignmentID: req.AssignmentID,
		Requested:    req.Requested,
	})
	if err != nil {
		if !errors.Is(err, session.ErrNotEntitled) {
			err = fmt.Errorf("%w: %v", errBadRequest, err)
		}
		s.fail(c, err)
		return
	}
	if s.deps.Listener != nil {
		eng.AddListener(s.deps.Listener)
	}
	if err := eng.Load(c.Request.Context()); err != nil {
		eng.Close()
		s.fail(c, err)
		return
	}
	s.deps.Registry.Add(eng)

	s.log.Info("session created", "session_id", eng.ID(), "user_id", uid, "mode", mode, "tier", tier)
	c.JSON(http.StatusCreated, newSnapshotView(eng.Snapshot()))
}

func (s *Server) lookup(c *gin.Context) (*session.Engine, bool) {
	eng, err := s.deps.Registry.Get(c.Param("id"), userID(c))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return eng, true
}

func (s *Server) getSession(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	eng.Tick()
	c.JSON(http.StatusOK, newSnapshotView(eng.Snapshot()))
}

func (s *Server) startSession(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	if err := eng.Start(); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshotView(eng.Snapshot()))
}

func (s *Server) answer(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	fb, err := eng.Answer(req.OptionID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feedback": newFeedbackView(fb),
		"session":  newSnapshotView(eng.Snapshot()),
	})
}

func (s *Server) next(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	// A failed write still completes the module; the error rides along in
	// the snapshot so the client can show the score it kept.
	var perr *session.PersistenceError
	if err := eng.Next(c.Request.Context()); err != nil && !errors.As(err, &perr) {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newSnapshotView(eng.Snapshot()))
}

func (s *Server) resume(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	resp := gin.H{}
	var drift *session.ClockDriftError
	if err := eng.Resume(); err != nil {
		if !errors.As(err, &drift) {
			s.fail(c, err)
			return
		}
		resp["warning"] = err.Error()
	}
	resp["session"] = newSnapshotView(eng.Snapshot())
	c.JSON(http.StatusOK, resp)
}

// exit ends the session, writing a partial result when a module is in
// progress, and drops it from the registry.
func (s *Server) exit(c *gin.Context) {
	eng, ok := s.lookup(c)
	if !ok {
		return
	}
	err := eng.Exit(context.WithoutCancel(c.Request.Context()))
	var perr *session.PersistenceError
	if err != nil && !errors.As(err, &perr) {
		s.fail(c, err)
		return
	}
	snap := eng.Snapshot()
	s.deps.Registry.Remove(eng.ID())
	c.JSON(http.StatusOK, gin.H{
		"session": newSnapshotView(snap),
		"summary": session.BuildSummary(snap, s.deps.Clock.Now()),
	})
}

func (s *Server) listResults(c *gin.Context) {
	results, err := s.deps.Results.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, fmt.Errorf("list results: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) getAdvice(c *gin.Context) {
	results, err := s.deps.Results.ListByUser(c.Request.Context(), userID(c))
	if err != nil {
		s.fail(c, fmt.Errorf("list results: %w", err))
		return
	}
	c.JSON(http.StatusOK, s.deps.Analyzer.Analyze(results))
}

func (s *Server) getLeaderboard(c *gin.Context) {
	results, err := s.deps.Results.ListAll(c.Request.Context())
	if err != nil {
		s.fail(c, fmt.Errorf("list results: %w", err))
		return
	}
	board := leaderboard.Board(s.deps.Reference, results, s.deps.Clock.Now())
	resp := gin.H{"entries": board}
	if me, ok := leaderboard.Find(board, userID(c)); ok {
		resp["me"] = me
	}
	c.JSON(http.StatusOK, resp)
}
