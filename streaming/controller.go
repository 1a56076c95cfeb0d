// Package streaming serves media variants over HTTP with byte range support
// and exposes the variant, preference and capability endpoints.
package streaming

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/olaris/olaris-variants/app"
	"gitlab.com/olaris/olaris-variants/interfaces/web"
)

// SessionHeader carries the capability session id. Players that cannot set
// headers may pass ?session= instead.
const SessionHeader = "X-Playback-Session"

// Controller is the controller for the streaming package. It implements the
// web.Controller interface.
type Controller struct {
	env    *app.AppContext
	server *Server
}

var _ web.Controller = (*Controller)(nil)

// NewStreamingController creates and returns a new Controller.
func NewStreamingController(env *app.AppContext, opts Options) *Controller {
	return &Controller{env: env, server: NewServer(opts)}
}

// RegisterRoutes registers the streaming handler's routes on the provided
// router.
func (c *Controller) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/media/{assetId}/variants", c.serveVariants).Methods(http.MethodGet)
	router.HandleFunc("/media/{assetId}/variants", c.updatePreferredCodec).Methods(http.MethodPatch)
	router.HandleFunc("/media/{assetId}/stream", c.serveStream).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/media/{assetId}/ticket", c.serveTicket).Methods(http.MethodGet)

	router.HandleFunc("/preferences", c.servePreferences).Methods(http.MethodGet)
	router.HandleFunc("/preferences", c.movePreference).Methods(http.MethodPatch)

	router.HandleFunc("/capabilities/check", serveCapabilityCheck).Methods(http.MethodGet)
	router.HandleFunc("/capabilities/session", c.establishSession).Methods(http.MethodPost)

	router.Handle("/metrics", promhttp.Handler())
}

func sessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("session")
}
