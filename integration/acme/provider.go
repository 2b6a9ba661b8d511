package acme

import (
	"context"
	"net/http"
	"strings"

	"github.com/Energy1190/autossl/core/certstore"
)

const challengePathPrefix = "/.well-known/acme-challenge/"

// http01Provider satisfies lego's challenge.Provider by writing key
// authorizations through the shared challenge record store. lego calls
// Present before the CA validates and CleanUp after, which is exactly the
// caller-managed challenge lifecycle the store expects.
type http01Provider struct {
	storage *certstore.Storage
}

func (p *http01Provider) Present(domain, token, keyAuth string) error {
	return p.storage.SetChallenge(context.Background(), domain, token, keyAuth)
}

func (p *http01Provider) CleanUp(domain, token, keyAuth string) error {
	return p.storage.DeleteChallenge(context.Background(), domain, token)
}

// ChallengeHandler serves HTTP-01 challenge responses from the shared store.
// Mount it on port 80 (or in front of the main handler) on every instance;
// the CA may probe any of them.
func ChallengeHandler(storage *certstore.Storage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.URL.Path, challengePathPrefix)
		if !ok || token == "" || strings.Contains(token, "/") {
			http.NotFound(w, r)
			return
		}

		domain := r.Host
		if idx := strings.LastIndex(domain, ":"); idx != -1 {
			domain = domain[:idx]
		}

		keyAuth, found, err := storage.GetChallenge(r.Context(), domain, token)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !found {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(keyAuth))
	})
}
