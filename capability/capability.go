// Package capability determines which codecs the requesting client can decode.
package capability

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

import (
	"strings"
	"sync"

	"gitlab.com/olaris/olaris-variants/codec"
)

// Map records per codec whether the client can decode it. A nil Map means no
// capability information is available and every codec counts as supported.
type Map map[codec.ID]bool

// Supports reports whether id is decodable according to m.
func (m Map) Supports(id codec.ID) bool {
	if m == nil {
		return true
	}
	return m[id]
}

// Probe answers whether a single codec can be decoded. Implementations must be
// deterministic for a given client build.
//counterfeiter:generate . Probe
type Probe interface {
	Probe(id codec.ID) bool
}

// StaticMatrix is a fixed capability table for headless callers that have no
// live decode engine to ask. Entries may be codec ids or MIME strings.
type StaticMatrix struct {
	playable map[string]bool
}

// NewStaticMatrix builds a matrix from codec ids and/or MIME strings.
func NewStaticMatrix(entries []string) *StaticMatrix {
	m := &StaticMatrix{playable: map[string]bool{}}
	for _, e := range entries {
		m.playable[normalizeMime(e)] = true
	}
	return m
}

// Probe implements Probe.
func (m *StaticMatrix) Probe(id codec.ID) bool {
	if m.playable[string(id)] {
		return true
	}
	mime := id.MimeType()
	return mime != "" && m.playable[normalizeMime(mime)]
}

// MimeProbe answers from the list of media types a client reported as
// playable, typically the results of MediaSource.isTypeSupported for the
// strings served by the capability check endpoint.
type MimeProbe struct {
	PlayableCodecs []string `json:"playableCodecs"`

	once     sync.Once
	playable map[string]bool
}

// Probe implements Probe.
func (p *MimeProbe) Probe(id codec.ID) bool {
	p.once.Do(func() {
		p.playable = make(map[string]bool, len(p.PlayableCodecs))
		for _, c := range p.PlayableCodecs {
			p.playable[normalizeMime(c)] = true
		}
	})
	mime := id.MimeType()
	return mime != "" && p.playable[normalizeMime(mime)]
}

// Scan probes every id once and returns the resulting Map.
func Scan(p Probe, ids []codec.ID) Map {
	m := make(Map, len(ids))
	for _, id := range ids {
		m[id] = p.Probe(id)
	}
	return m
}

// normalizeMime makes `audio/mp4;codecs=alac` and `audio/mp4; codecs="alac"` compare equal.
func normalizeMime(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}
