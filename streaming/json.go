package streaming

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/errdefs"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warnln("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	se := errdefs.Classify(err)
	requestErrors.WithLabelValues(se.Kind()).Inc()
	writeJSON(w, se.Status(), errorResponse{Error: se.Kind(), Message: err.Error()})
}

func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrapf(errdefs.ErrBadRequest, "could not parse JSON body: %s", err)
	}
	return nil
}
