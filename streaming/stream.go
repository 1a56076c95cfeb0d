package streaming

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gitlab.com/olaris/olaris-variants/catalog"
	"gitlab.com/olaris/olaris-variants/codec"
	"gitlab.com/olaris/olaris-variants/errdefs"
	"gitlab.com/olaris/olaris-variants/filesystem"
)

func (c *Controller) serveStream(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]
	if c.env.RequireTickets {
		if err := c.env.Tickets.Authorize(r.URL.Query().Get("ticket"), assetID); err != nil {
			writeError(w, err)
			return
		}
	}

	asset, err := catalog.FindAssetByUUID(assetID)
	if err != nil {
		log.WithField("asset", assetID).Debugln("stream requested for unknown asset")
		writeError(w, err)
		return
	}

	id, err := c.resolve(r, asset, codec.Parse(r.URL.Query().Get("codec")))
	if err != nil {
		writeError(w, err)
		return
	}
	variant, _ := asset.Variant(id)
	fields := asset.LogFields()
	fields["codec"] = id
	fields["locator"] = variant.Locator

	locator, err := filesystem.ParseFileLocator(variant.Locator)
	if err != nil {
		log.WithFields(fields).WithError(err).Errorln("catalog holds an unparsable locator")
		writeError(w, errors.Wrap(errdefs.ErrIOFailure, err.Error()))
		return
	}

	f, err := filesystem.Open(r.Context(), locator)
	if err != nil {
		if errdefs.IsNotFound(err) {
			log.WithFields(fields).WithError(err).Warnln("catalog/storage drift: variant file is missing")
		} else {
			log.WithFields(fields).WithError(err).Errorln("failed to open variant")
		}
		writeError(w, err)
		return
	}
	defer f.Close()

	n, err := c.server.Serve(w, r, Content{
		Reader:      f,
		Size:        f.Size(),
		ContentType: ContentType(locator.Path),
		Seekable:    asset.Kind.Seekable(),
	})
	if err == nil {
		return
	}
	if Uncommitted(err) {
		if errors.Is(err, errdefs.ErrMalformedRange) {
			log.WithFields(fields).WithError(err).Debugln("rejecting range")
		} else {
			log.WithFields(fields).WithError(err).Errorln("failed to read variant")
		}
		writeError(w, err)
		return
	}

	fields["written"] = n
	if errors.Is(err, context.Canceled) || r.Context().Err() != nil {
		streamsAborted.WithLabelValues("client").Inc()
		log.WithFields(fields).Debugln("client went away, stream aborted")
		return
	}
	streamsAborted.WithLabelValues("io").Inc()
	log.WithFields(fields).WithError(err).Errorln("stream aborted")
}
