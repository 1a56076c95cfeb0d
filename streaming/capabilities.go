package streaming

import (
	"net/http"

	"gitlab.com/olaris/olaris-variants/capability"
	"gitlab.com/olaris/olaris-variants/codec"
)

type capabilityCheckResponse struct {
	Codecs map[codec.ID]string `json:"codecs"`
}

type sessionRequest struct {
	Session  string   `json:"session"`
	Playable []string `json:"playable"`
}

type sessionResponse struct {
	Session      string         `json:"session"`
	Capabilities capability.Map `json:"capabilities"`
}

// serveCapabilityCheck lists the media type a client has to test for each codec.
func serveCapabilityCheck(w http.ResponseWriter, r *http.Request) {
	codecs := make(map[codec.ID]string, codec.Count())
	for _, id := range codec.All() {
		codecs[id] = id.MimeType()
	}
	writeJSON(w, http.StatusOK, capabilityCheckResponse{Codecs: codecs})
}

// establishSession (re)creates a capability session from the media types the
// client reported as playable. The whole universe is probed again.
func (c *Controller) establishSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Session == "" {
		req.Session = r.Header.Get(SessionHeader)
	}

	probe := &capability.MimeProbe{PlayableCodecs: req.Playable}
	id, caps := c.env.Sessions.Establish(req.Session, probe, c.env.Preferences.Snapshot())

	w.Header().Set(SessionHeader, id)
	writeJSON(w, http.StatusOK, sessionResponse{Session: id, Capabilities: caps})
}
