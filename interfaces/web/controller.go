package web

import "github.com/gorilla/mux"

// Controller is a set of handlers that can be registered on a router.
type Controller interface {
	RegisterRoutes(r *mux.Router)
}

// Mount registers every controller on a fresh router.
func Mount(controllers ...Controller) *mux.Router {
	r := mux.NewRouter()
	for _, c := range controllers {
		c.RegisterRoutes(r)
	}
	return r
}
