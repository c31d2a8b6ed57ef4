// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Command jobly-token prints a signed token for a jobly user.
//
//	jobly-token -username u1 -admin
//
// The secret is taken from -secret or from the SECRET_KEY environment.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joeshaw/envdecode"

	"github.com/relabs-tech/jobly/core/access"
)

// Service holds the configuration from the environment
type Service struct {
	SecretKey string `env:"SECRET_KEY,default=secret-dev" description:"the secret signing the tokens"`
}

func main() {
	username := flag.String("username", "", "the username of the token (required)")
	isAdmin := flag.Bool("admin", false, "issue an admin token")
	secret := flag.String("secret", "", "the secret, defaults to SECRET_KEY")
	flag.Parse()

	if *username == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *secret == "" {
		service := &Service{}
		if err := envdecode.Decode(service); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		*secret = service.SecretKey
	}

	token, err := access.CreateToken([]byte(*secret), *username, *isAdmin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(token)
}
