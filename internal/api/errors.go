package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/prepdeck/internal/session"
)

var errBadRequest = errors.New("bad request")

func statusFor(err error) int {
	var perr *session.PersistenceError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, session.ErrUnknownOption):
		return http.StatusBadRequest
	case errors.Is(err, errForbidden), errors.Is(err, session.ErrNotEntitled):
		return http.StatusForbidden
	case errors.Is(err, errSessionNotFound), errors.Is(err, session.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, session.ErrPoolExhausted):
		return http.StatusUnprocessableEntity
	case errors.As(err, &perr):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
