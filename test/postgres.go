// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Package test provides the database and the test suite for jobly integration tests
package test

import (
	"context"
	"fmt"

	"github.com/joeshaw/envdecode"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
)

// Service is the environment of the tests.
//
// use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
// and POSTGRES_PASSWORD="docker"
type Service struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB without password"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,optional" description:"password to the Postgres DB"`
}

const (
	postgresUser     = "testuser"
	postgresPassword = "testpass"
	postgresDB       = "testdb"
)

// OpenDatabase opens a test database with schema.
//
// The database of the POSTGRES environment is used if it is set. Otherwise a
// postgres container is started, which is removed again by terminate. The error
// tells why neither was possible; database tests are skipped in this case.
// terminate is never nil.
func OpenDatabase(ctx context.Context, schema string) (db *csql.DB, terminate func(), err error) {
	terminate = func() {}
	rlog := logger.Default()

	var service Service
	if envErr := envdecode.Decode(&service); envErr == nil {
		db, err = open(service.Postgres, service.PostgresPassword, schema)
		return db, terminate, err
	}

	rlog.Infoln("POSTGRES is not set, starting postgres container")
	container, err := startContainer(ctx)
	if err != nil {
		return nil, terminate, fmt.Errorf("cannot start postgres container: %w", err)
	}
	terminate = func() {
		if err := container.Terminate(context.Background()); err != nil {
			rlog.WithError(err).Errorln("cannot terminate postgres container")
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		return nil, func() {}, err
	}

	db, err = open(fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port.Port(), postgresUser, postgresDB), postgresPassword, schema)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	return db, terminate, nil
}

func startContainer(ctx context.Context) (container testcontainers.Container, err error) {
	// testcontainers panics on some hosts without docker
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	}
	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
}

// open calls csql.OpenWithSchema, which panics if the database is not reachable
func open(dataSourceName, password, schema string) (db *csql.DB, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cannot open database: %v", r)
		}
	}()
	return csql.OpenWithSchema(dataSourceName, password, schema), nil
}
