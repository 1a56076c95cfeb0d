package streaming

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
	"gitlab.com/olaris/olaris-variants/resolver"
)

type variantsResponse struct {
	Available []codec.ID          `json:"available"`
	Current   codec.ID            `json:"current"`
	Preferred codec.ID            `json:"preferred,omitempty"`
	Paths     map[codec.ID]string `json:"paths"`
}

type preferredCodecRequest struct {
	Codec string `json:"codec"`
}

type preferredCodecResponse struct {
	Preferred *string `json:"preferred"`
}

type ticketResponse struct {
	Ticket    string    `json:"ticket"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// resolve picks the variant of asset to serve. An explicit codec must be one
// of the asset's variants. A stored preferred codec that is no longer part
// of the set is ignored.
func (c *Controller) resolve(r *http.Request, asset *catalog.MediaAsset, explicit codec.ID) (codec.ID, error) {
	set := asset.VariantSet()
	if explicit != "" {
		if !set.Has(explicit) {
			return "", errors.Wrapf(errdefs.ErrNotFound, "asset %s has no %q variant", asset.UUID, explicit)
		}
		return explicit, nil
	}

	override := asset.Preferred()
	if override != "" && !set.Has(override) {
		log.WithFields(asset.LogFields()).WithField("codec", override).
			Warnln("preferred codec is no longer a variant of this asset, ignoring it")
		override = ""
	}

	id, err := resolver.Resolve(set, override, c.env.Preferences.Snapshot(), c.env.Capabilities(sessionID(r)))
	if err != nil {
		return "", errors.Wrapf(err, "asset %s", asset.UUID)
	}
	resolutions.WithLabelValues(string(id)).Inc()
	return id, nil
}

func (c *Controller) serveVariants(w http.ResponseWriter, r *http.Request) {
	asset, err := catalog.FindAssetByUUID(mux.Vars(r)["assetId"])
	if err != nil {
		writeError(w, err)
		return
	}

	current, err := c.resolve(r, asset, "")
	if err != nil {
		log.WithFields(asset.LogFields()).WithError(err).Errorln("could not resolve variant")
		writeError(w, err)
		return
	}

	set := asset.VariantSet()
	writeJSON(w, http.StatusOK, variantsResponse{
		Available: set.IDs(),
		Current:   current,
		Preferred: asset.Preferred(),
		Paths:     set,
	})
}

func (c *Controller) updatePreferredCodec(w http.ResponseWriter, r *http.Request) {
	var req preferredCodecRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	assetID := mux.Vars(r)["assetId"]
	var asset *catalog.MediaAsset
	var err error
	if id := codec.Parse(req.Codec); id == "" {
		asset, err = catalog.ClearPreferredCodec(assetID)
	} else {
		asset, err = catalog.SetPreferredCodec(assetID, id)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preferredCodecResponse{Preferred: asset.PreferredCodec})
}

func (c *Controller) serveTicket(w http.ResponseWriter, r *http.Request) {
	asset, err := catalog.FindAssetByUUID(mux.Vars(r)["assetId"])
	if err != nil {
		writeError(w, err)
		return
	}

	ticket, expiresAt, err := c.env.Tickets.CreateStreamingJWT(asset.UUID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticketResponse{Ticket: ticket, ExpiresAt: expiresAt})
}
