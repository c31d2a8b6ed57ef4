// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Command jobly serves the jobly API
package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/relabs-tech/jobly/core/backend"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
// and POSTGRES_PASSWORD="docker"
type Service struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB without password"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,optional" description:"password to the Postgres DB"`
	PostgresSchema   string `env:"POSTGRES_SCHEMA,default=jobly" description:"the database schema of the tables"`
	SecretKey        string `env:"SECRET_KEY,default=secret-dev" description:"the secret signing the tokens"`
	Port             string `env:"PORT,default=3001" description:"the port to listen on"`
	LogLevel         string `env:"LOG_LEVEL,default=info" description:"the log level: debug, info, warn or error"`
	UpdateSchema     bool   `env:"UPDATE_SCHEMA,default=true" description:"create the tables at start"`
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	level, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		panic(err)
	}
	logger.InitLogger(level)
	rlog := logger.Default()

	if service.SecretKey == "secret-dev" {
		rlog.Warnln("SECRET_KEY is not set, using the development secret")
	}

	db := csql.OpenWithSchema(service.Postgres, service.PostgresPassword, service.PostgresSchema)
	defer db.Close()

	router := mux.NewRouter()
	backend.New(&backend.Builder{
		DB:           db,
		Router:       router,
		Secret:       []byte(service.SecretKey),
		UpdateSchema: service.UpdateSchema,
	})

	rlog.Infoln("jobly version", backend.Version, "listen on port :"+service.Port)
	if err := http.ListenAndServe(":"+service.Port, router); err != nil {
		rlog.WithError(err).Errorln("Error 4000: server stopped")
	}
}
