package streaming

import (
	"net/http"

	"github.com/pkg/errors"

	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
)

type preferencesResponse struct {
	Order []codec.ID `json:"order"`
}

type moveRequest struct {
	Codec string `json:"codec"`
	Index *int   `json:"index"`
}

func (c *Controller) servePreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, preferencesResponse{Order: c.env.Preferences.Snapshot()})
}

func (c *Controller) movePreference(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Index == nil {
		writeError(w, errors.Wrap(errdefs.ErrBadRequest, "index is required"))
		return
	}

	order, err := c.env.Preferences.Move(codec.Parse(req.Codec), *req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesResponse{Order: order})
}
