// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package access

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/relabs-tech/jobly/core/apierror"
	"github.com/relabs-tech/jobly/core/logger"
)

// guard returns a middleware which lets requests pass when allowed returns
// true and answers all other requests with 401
func guard(allowed func(r *http.Request, identity *Identity) bool) mux.MiddlewareFunc {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())
			if !allowed(r, identity) {
				logger.FromContext(r.Context()).Debugln("not authorized:", identity, r.Method, r.URL)
				apierror.Write(w, r, apierror.NewUnauthorized())
				return
			}
			h.ServeHTTP(w, r)
		})
	}
}

// RequireLoggedIn lets only requests with an identity pass
func RequireLoggedIn() mux.MiddlewareFunc {
	return guard(func(r *http.Request, identity *Identity) bool {
		return identity != nil
	})
}

// RequireAdmin lets only requests of admins pass
func RequireAdmin() mux.MiddlewareFunc {
	return guard(func(r *http.Request, identity *Identity) bool {
		return identity.Admin()
	})
}

// RequireAdminOrSelf lets requests of admins pass, and requests of the user
// named by the route variable param
func RequireAdminOrSelf(param string) mux.MiddlewareFunc {
	return guard(func(r *http.Request, identity *Identity) bool {
		return identity.Admin() || identity.Is(mux.Vars(r)[param])
	})
}
