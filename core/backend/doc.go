// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

/*
Package backend implements the jobly REST backend

A backend manages the companies and jobs of a Postgres-SQL database and
provides a RESTful-API for them:

	GET    /companies?name=&minEmployees=&maxEmployees=
	POST   /companies                           (admin)
	GET    /companies/{handle}
	PATCH  /companies/{handle}                  (admin)
	DELETE /companies/{handle}                  (admin)
	GET    /jobs?title=&minSalary=&hasEquity=
	POST   /jobs                                (admin)
	GET    /jobs/{id}
	PATCH  /jobs/{id}                           (admin)
	DELETE /jobs/{id}                           (admin)
	GET    /version                             (admin)
	GET    /jobly/statistics                    (admin)

Requests authenticate with a JWT bearer token, see package access. Bodies and
query parameters are validated against the schemas of package schemas. Errors
are reported as

	{"error": {"message": "No company: nope", "status": 404}}

The backend is created with a Builder:

	router := mux.NewRouter()
	backend.New(&backend.Builder{
		DB:           db,
		Router:       router,
		Secret:       []byte(secretKey),
		UpdateSchema: true,
	})
	http.ListenAndServe(":3001", router)

# Etag

All GET requests return an Etag header. A request with a matching
If-None-Match header is answered with 304 Not Modified and an empty body.
*/
package backend
