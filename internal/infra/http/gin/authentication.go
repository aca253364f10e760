package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalContextKey = "rentnest.principal"

// operatorRole marks collaborator/administrative tokens allowed to drive the
// completed transition.
const operatorRole = "operator"

type principal struct {
	ID    string
	Roles []string
}

func (p principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// JWTAuth resolves a bearer token into a principal. The token is issued by
// the external auth service; this layer only verifies and decodes it.
type JWTAuth struct {
	Secret []byte
}

func (a JWTAuth) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.Next()
		return
	}
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.Secret, nil
	})
	if err != nil || !parsed.Valid {
		c.Next()
		return
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{ID: sub, Roles: rolesFromClaims(claims)})
	c.Next()
}

func rolesFromClaims(claims jwt.MapClaims) []string {
	raw, ok := claims["roles"].([]any)
	if !ok {
		return nil
	}
	var roles []string
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

func extractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// requireUser aborts with 401 unless the request carries a resolved principal.
func requireUser(c *gin.Context) (principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return principal{}, false
	}
	p, ok := val.(principal)
	if !ok || p.ID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return principal{}, false
	}
	return p, true
}
