/* auth.go
 * Contains the admin login, logout and the session middleware guarding the admin routes
 * Authors: Zachary Bower
 */

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "smallie_admin"
	sessionIssuer = "smallie"
	adminSubject  = "admin"
)

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) loginEnabled() bool {
	return s.cfg.AdminPasswordHash != "" && s.cfg.JWTSecret != ""
}

// issueToken signs a session token for the admin
func (s *Server) issueToken() (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Role: adminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminSubject,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	})
	return tok.SignedString([]byte(s.cfg.JWTSecret))
}

// parseToken checks the signature, expiry and role of a session token
func (s *Server) parseToken(tokenStr string) (*adminClaims, error) {
	cl := &adminClaims{}
	tok, err := jwt.ParseWithClaims(tokenStr, cl, func(token *jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid || cl.Role != adminSubject {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return cl, nil
}

// login checks the admin password against the configured bcrypt hash and sets the session cookie
func (s *Server) login(c *gin.Context) {
	if !s.loginEnabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin login is not configured"})
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("failed admin login", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.issueToken()
	if err != nil {
		s.logger.Error("failed to sign session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, token, int(s.cfg.SessionTTL.Seconds()), "/", "", s.cfg.SecureCookies, true)
	s.logger.Info("admin logged in", "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cfg.SecureCookies, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// requireAdmin rejects requests without a valid session cookie
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.loginEnabled() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin login is not configured"})
			return
		}
		tokenStr, err := c.Cookie(sessionCookie)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}
		if _, err := s.parseToken(tokenStr); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
			return
		}
		c.Next()
	}
}
