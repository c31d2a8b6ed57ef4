// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

package test

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/relabs-tech/jobly/core/access"
	"github.com/relabs-tech/jobly/core/backend"
	"github.com/relabs-tech/jobly/core/client"
	"github.com/relabs-tech/jobly/core/csql"
)

// IntegrationTestSuite runs a jobly backend behind a real HTTP server. Tests
// talk to it with clients for an admin, a user and an anonymous caller.
type IntegrationTestSuite struct {
	*backend.Backend
	suite.Suite

	// Schema is the database schema of the suite, defaults to _jobly_integration_test_
	Schema string
	// Secret signs the tokens of the clients
	Secret []byte

	srv       *http.Server
	dbConn    *csql.DB
	router    *mux.Router
	terminate func()

	URL          string
	Admin        client.Client // admin "admin"
	User         client.Client // user "user"
	ClientNoAuth client.Client
}

// SetupSuite opens the database and starts the server. The suite is skipped
// if there is no database.
func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	if s.Schema == "" {
		s.Schema = "_jobly_integration_test_"
	}
	if s.Secret == nil {
		s.Secret = []byte("secret-integration-test")
	}

	var err error
	s.dbConn, s.terminate, err = OpenDatabase(ctx, s.Schema)
	if err != nil {
		s.T().Skip("no database:", err)
	}
	s.dbConn.ClearSchema()

	s.router = mux.NewRouter()
	s.Backend = backend.New(&backend.Builder{
		DB:           s.dbConn,
		Router:       s.router,
		Secret:       s.Secret,
		UpdateSchema: true,
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	s.Require().NoError(err)
	s.URL = "http://" + listener.Addr().String()
	s.srv = &http.Server{Handler: s.router}
	go func() {
		err := s.srv.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			s.T().Errorf("Failed to start HTTP server: %v", err)
		}
	}()

	adminToken, err := access.CreateToken(s.Secret, "admin", true)
	s.Require().NoError(err)
	userToken, err := access.CreateToken(s.Secret, "user", false)
	s.Require().NoError(err)
	s.Admin = client.NewWithURL(s.URL).WithToken(adminToken)
	s.User = client.NewWithURL(s.URL).WithToken(userToken)
	s.ClientNoAuth = client.NewWithURL(s.URL)
}

// SetupTest starts every test with empty tables
func (s *IntegrationTestSuite) SetupTest() {
	for _, table := range []string{"jobs", "companies"} {
		_, err := s.dbConn.Exec("DELETE FROM " + s.dbConn.Table(table) + ";")
		s.Require().NoError(err)
	}
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.srv != nil {
		err := s.srv.Shutdown(context.Background())
		s.Require().NoError(err)
	}
	if s.dbConn != nil {
		s.dbConn.Close()
	}
	if s.terminate != nil {
		s.terminate()
	}
}
