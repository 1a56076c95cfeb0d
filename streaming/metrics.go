package streaming

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	streamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olaris_variants_stream_requests_total",
		Help: "Stream responses started, by mode (full, partial, head).",
	}, []string{"mode"})

	streamedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "olaris_variants_streamed_bytes_total",
		Help: "Body bytes written to clients.",
	})

	streamsAborted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olaris_variants_streams_aborted_total",
		Help: "Streams that ended before the body was complete, by reason.",
	}, []string{"reason"})

	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "olaris_variants_active_streams",
		Help: "Streams currently copying bytes.",
	})

	resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olaris_variants_resolutions_total",
		Help: "Variant resolutions, by chosen codec.",
	}, []string{"codec"})

	requestErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olaris_variants_request_errors_total",
		Help: "Requests answered with an error, by error kind.",
	}, []string{"kind"})
)
