// README: Session loader middleware; resolves :id to a live session or aborts with 404.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripmap/internal/session"
)

const sessionKey = "tripmap.session"

// SessionStore is the part of session.Manager the loader needs.
type SessionStore interface {
	Get(id string) (*session.Session, error)
}

// LoadSession looks up the session named by the :id path parameter. Malformed ids are
// rejected with 400 before the store is consulted.
func LoadSession(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
			return
		}
		s, err := store.Get(id)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": session.ErrNotFound.Error()})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session installed by LoadSession, or nil.
func SessionFrom(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
