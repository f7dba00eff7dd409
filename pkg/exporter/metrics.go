package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	scrapesTotal   prometheus.Counter
	scrapeErrors   prometheus.Counter
	scrapeDuration prometheus.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		scrapesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wireguard_exporter_scrapes_total",
			Help: "Number of scrapes served.",
		}),
		scrapeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wireguard_exporter_scrape_errors_total",
			Help: "Number of scrapes that failed.",
		}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wireguard_exporter_scrape_duration_seconds",
			Help:    "Duration of a scrape including the wg invocation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *metrics) Register(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{m.scrapesTotal, m.scrapeErrors, m.scrapeDuration} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}

	return nil
}
