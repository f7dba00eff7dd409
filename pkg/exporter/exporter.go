// Package exporter turns the current WireGuard state into Prometheus metrics.
package exporter

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/dump"
	"github.com/mrincompetent/wireguard-exporter/pkg/wireguard/peernames"
)

const name = "exporter"

// DumpSource provides the raw output of the external dump command.
type DumpSource interface {
	Dump(ctx context.Context) (string, error)
}

// NameSource provides the friendly name mapping for the current scrape.
// Implementations must not fail: name resolution is best effort.
type NameSource interface {
	Names() peernames.Mapping
}

// Exporter handles scrape requests. Every request builds its own model from
// scratch, so concurrent scrapes share no mutable state.
type Exporter struct {
	source  DumpSource
	names   NameSource
	log     *zap.Logger
	now     func() time.Time
	metrics *metrics
}

func New(source DumpSource, names NameSource, log *zap.Logger, registry prometheus.Registerer) (*Exporter, error) {
	m := newMetrics()
	if err := m.Register(registry); err != nil {
		return nil, errors.Wrap(err, "unable to register the exporter metrics")
	}

	return &Exporter{
		source:  source,
		names:   names,
		log:     log.Named(name),
		now:     time.Now,
		metrics: m,
	}, nil
}

// Scrape fetches and parses the current WireGuard state.
// Dump and parse failures abort the whole scrape. Partial metrics are worse
// for monitoring correctness than a visibly failed scrape.
func (e *Exporter) Scrape(ctx context.Context) (*Model, error) {
	text, err := e.source.Dump(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "unable to dump the WireGuard state")
	}

	interfaces, err := dump.Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse the WireGuard state")
	}

	var names peernames.Mapping
	if e.names != nil {
		names = e.names.Names()
	}

	return NewModel(interfaces, names), nil
}

func (e *Exporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := e.now()
	e.metrics.scrapesTotal.Inc()

	model, err := e.Scrape(r.Context())
	if err != nil {
		e.metrics.scrapeErrors.Inc()
		e.log.Error("Scrape failed", zap.Error(err))
		http.Error(w, "scrape failed", http.StatusInternalServerError)
		return
	}

	body, err := Encode(model, e.now())
	if err != nil {
		e.metrics.scrapeErrors.Inc()
		e.log.Error("Unable to encode the scrape result", zap.Error(err))
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	e.metrics.scrapeDuration.Observe(e.now().Sub(start).Seconds())

	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	if _, err := w.Write(body); err != nil {
		e.log.Debug("Unable to write the scrape response", zap.Error(err))
	}
}
