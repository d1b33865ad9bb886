package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"mindwell-server/internal/managers"
	"mindwell-server/internal/schemas"
	"mindwell-server/internal/utils"
)

const lookupTimeout = 10 * time.Second

// RequireAuth guards a route group. It extracts the bearer token, verifies
// the signature and expiry, and resolves the subject against the users table
// so that tokens of deleted accounts stop working immediately.
//
// Every rejection is a 401. The concrete cause (missing header, bad token,
// unknown user) is logged but not exposed to the client.
func RequireAuth(databaseMgr managers.DatabaseMgr, jwtMgr managers.JWTMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			utils.WriteAndLogError(c, schemas.AuthenticationRequired, http.StatusUnauthorized,
				errors.New("no bearer token in authorization header"))
			c.Abort()
			return
		}

		claims, err := jwtMgr.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		userId, err := claims.GetSubject()
		if err != nil || userId == "" {
			utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized,
				errors.New("token has no subject"))
			c.Abort()
			return
		}

		user, err := resolveUser(c, databaseMgr, userId)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Valid signature but the account is gone.
				utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
			} else {
				utils.WriteAndLogError(c, schemas.DatabaseError, http.StatusInternalServerError, err)
			}
			c.Abort()
			return
		}

		c.Set(utils.ClaimsKey.String(), claims)
		c.Set(utils.UserKey.String(), user)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}

	return token, true
}

func resolveUser(c *gin.Context, databaseMgr managers.DatabaseMgr, userId string) (*schemas.AuthenticatedUser, error) {
	ctx, cancel := context.WithDeadline(c.Request.Context(), time.Now().Add(lookupTimeout))
	defer cancel()

	user := &schemas.AuthenticatedUser{}
	query := "SELECT user_id, username, email FROM users WHERE user_id = $1"
	err := databaseMgr.GetPool().QueryRow(ctx, query, userId).
		Scan(&user.UserId, &user.Username, &user.Email)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetAuthenticatedUser reads the user placed in the context by RequireAuth.
func GetAuthenticatedUser(c *gin.Context) (*schemas.AuthenticatedUser, bool) {
	value, exists := c.Get(utils.UserKey.String())
	if !exists {
		return nil, false
	}

	user, ok := value.(*schemas.AuthenticatedUser)
	return user, ok
}

// GetClaims reads the verified JWT claims placed in the context by RequireAuth.
func GetClaims(c *gin.Context) (jwt.Claims, bool) {
	value, exists := c.Get(utils.ClaimsKey.String())
	if !exists {
		return nil, false
	}

	claims, ok := value.(jwt.Claims)
	return claims, ok
}
