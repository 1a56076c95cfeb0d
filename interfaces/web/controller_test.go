package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type pingController struct{ path string }

func (p pingController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc(p.path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMount(t *testing.T) {
	r := Mount(pingController{"/a"}, pingController{"/b"})

	for _, path := range []string{"/a", "/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/c", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
