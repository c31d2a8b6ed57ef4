// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/logger"
)

var secret = []byte("secret-test")

func TestCreateAndParseToken(t *testing.T) {
	token, err := access.CreateToken(secret, "u1", true)
	require.NoError(t, err)

	identity, err := access.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, &access.Identity{Username: "u1", IsAdmin: true}, identity)

	claims := jwt.MapClaims{}
	_, _, err = new(jwt.Parser).ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["username"])
	assert.Equal(t, true, claims["isAdmin"])
	assert.Contains(t, claims, "iat")
}

func TestParseTokenRejects(t *testing.T) {
	token, err := access.CreateToken([]byte("other secret"), "u1", true)
	require.NoError(t, err)
	_, err = access.ParseToken(secret, token)
	assert.Error(t, err, "wrong secret")

	_, err = access.ParseToken(secret, "not-a-token")
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "u1", "isAdmin": true}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = access.ParseToken(secret, none)
	assert.Error(t, err, "unsigned token")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"username": "u1", "isAdmin": true}).SignedString(secret)
	require.NoError(t, err)
	_, err = access.ParseToken(secret, hs512)
	assert.Error(t, err, "other algorithm")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "u1", "exp": time.Now().Add(-time.Hour).Unix()}).SignedString(secret)
	require.NoError(t, err)
	_, err = access.ParseToken(secret, expired)
	assert.Error(t, err, "expired token")

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"isAdmin": true}).SignedString(secret)
	require.NoError(t, err)
	_, err = access.ParseToken(secret, noUser)
	assert.Error(t, err, "token without username")
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, access.IdentityFromContext(ctx))

	identity := &access.Identity{Username: "u2"}
	ctx = access.ContextWithIdentity(ctx, identity)
	assert.Equal(t, identity, access.IdentityFromContext(ctx))
	assert.True(t, identity.Is("u2"))
	assert.False(t, identity.Admin())

	var anonymous *access.Identity
	assert.False(t, anonymous.Is(""))
	assert.False(t, anonymous.Admin())
	assert.Equal(t, "anonymous", anonymous.String())
}

// newRouter returns a router with the JWT middleware and one route per guard.
// Every route answers with the username of its identity.
func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(access.NewJwtMiddleware(secret))

	whoami := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(access.IdentityFromContext(r.Context()).String() + ":" + logger.IdentityFromContext(r.Context())))
	})
	router.Handle("/public", whoami)

	loggedIn := router.PathPrefix("/loggedin").Subrouter()
	loggedIn.Use(access.RequireLoggedIn())
	loggedIn.Handle("", whoami)

	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(access.RequireAdmin())
	admin.Handle("", whoami)

	self := router.PathPrefix("/users/{username}").Subrouter()
	self.Use(access.RequireAdminOrSelf("username"))
	self.Handle("", whoami)
	return router
}

func TestGuards(t *testing.T) {
	router := newRouter()

	adminToken, err := access.CreateToken(secret, "u1", true)
	require.NoError(t, err)
	userToken, err := access.CreateToken(secret, "u2", false)
	require.NoError(t, err)
	foreignToken, err := access.CreateToken([]byte("wrong"), "u1", true)
	require.NoError(t, err)

	testCases := []struct {
		name          string
		path          string
		authorization string
		status        int
		body          string
	}{
		{"public anonymous", "/public", "", http.StatusOK, "anonymous:"},
		{"public user", "/public", "Bearer " + userToken, http.StatusOK, "u2:u2"},
		{"public invalid token", "/public", "Bearer " + foreignToken, http.StatusOK, "anonymous:"},
		{"public lower case bearer", "/public", "bearer " + userToken, http.StatusOK, "u2:u2"},
		{"public token with spaces", "/public", "  Bearer   " + userToken + " ", http.StatusOK, "u2:u2"},
		{"public no bearer prefix", "/public", userToken, http.StatusOK, "anonymous:"},
		{"logged in anonymous", "/loggedin", "", http.StatusUnauthorized, ""},
		{"logged in invalid token", "/loggedin", "Bearer " + foreignToken, http.StatusUnauthorized, ""},
		{"logged in user", "/loggedin", "Bearer " + userToken, http.StatusOK, "u2:u2"},
		{"admin anonymous", "/admin", "", http.StatusUnauthorized, ""},
		{"admin user", "/admin", "Bearer " + userToken, http.StatusUnauthorized, ""},
		{"admin admin", "/admin", "Bearer " + adminToken, http.StatusOK, "u1:u1"},
		{"self anonymous", "/users/u2", "", http.StatusUnauthorized, ""},
		{"self user", "/users/u2", "Bearer " + userToken, http.StatusOK, "u2:u2"},
		{"self other user", "/users/u3", "Bearer " + userToken, http.StatusUnauthorized, ""},
		{"self admin", "/users/u3", "Bearer " + adminToken, http.StatusOK, "u1:u1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authorization != "" {
				r.Header.Set("Authorization", tc.authorization)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, r)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, tc.body, rr.Body.String())
			} else {
				assert.JSONEq(t, `{"error":{"message":"Unauthorized","status":401}}`, rr.Body.String())
			}
		})
	}
}
