package exporter

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Encode renders a model as Prometheus text exposition format.
// The registry sorts families and series, so identical input always yields
// byte-identical output.
func Encode(model *Model, now time.Time) ([]byte, error) {
	registry := prometheus.NewPedanticRegistry()
	if err := registry.Register(newCollector(model, now)); err != nil {
		return nil, errors.Wrap(err, "unable to register the scrape collector")
	}

	families, err := registry.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "unable to gather the scrape metrics")
	}

	buf := &bytes.Buffer{}
	encoder := expfmt.NewEncoder(buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return nil, errors.Wrapf(err, "unable to encode the metric family '%s'", family.GetName())
		}
	}

	return buf.Bytes(), nil
}
