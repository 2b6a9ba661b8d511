// Package acme implements the autossl.Issuer collaborator over the ACME
// protocol using go-acme/lego with the HTTP-01 challenge.
//
// Challenge tokens flow through the shared challenge record store, so in a
// multi-instance deployment the CA's validation probe can land on any
// instance — each serves tokens written by every other via ChallengeHandler.
//
//	issuer, err := acme.NewIssuer(acme.Config{
//		Email:        "admin@example.com",
//		DirectoryURL: lego.LEDirectoryStaging, // production default
//	}, storage)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := autossl.New(autossl.Config{Storage: storage, Issuer: issuer})
//
//	// Answer validation probes on every instance:
//	mux.Handle("/.well-known/acme-challenge/", acme.ChallengeHandler(storage))
package acme
