package handler

import (
	"net/http"
	"sync"

	"fair/config"
	"fair/di"
	"fair/shared/logger"
	fairHTTP "fair/transport/http"
)

// app is built on the first request and reused while the function stays warm.
var app = sync.OnceValue(func() *fairHTTP.HTTP {
	cfg := config.Get()

	logger.Setup(cfg, logger.ComponentAPI)

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	app().ServeHTTP(w, r)
}
