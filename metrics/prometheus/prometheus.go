// Package prometheus implements metrics.Provider on top of
// github.com/prometheus/client_golang, so a host application can export
// Fluxion's merge-engine throughput, subject subscriber counts, and adapter
// value/error counts as real Prometheus instruments instead of only the
// in-memory BasicProvider.
package prometheus

import (
	"sync"

	promclient "github.com/prometheus/client_golang/prometheus"

	"github.com/umbgtt10/fluxion-sub003/metrics"
)

// Provider implements metrics.Provider, registering one Prometheus
// instrument per distinct name on first use and reusing it afterwards.
type Provider struct {
	registerer promclient.Registerer

	mu         sync.Mutex
	counters   map[string]promclient.Counter
	updowns    map[string]promclient.Gauge
	histograms map[string]promclient.Histogram
}

// New creates a Provider that registers instruments against reg. Pass
// promclient.DefaultRegisterer to export via the default /metrics handler.
func New(reg promclient.Registerer) *Provider {
	return &Provider{
		registerer: reg,
		counters:   make(map[string]promclient.Counter),
		updowns:    make(map[string]promclient.Gauge),
		histograms: make(map[string]promclient.Histogram),
	}
}

func applyOptions(opts []metrics.InstrumentOption) metrics.InstrumentConfig {
	var cfg metrics.InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// Counter returns (creating once) a Prometheus counter for name.
func (p *Provider) Counter(name string, opts ...metrics.InstrumentOption) metrics.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return counterAdapter{c}
	}
	cfg := applyOptions(opts)
	c := promclient.NewCounter(promclient.CounterOpts{Name: name, Help: cfg.Description})
	_ = p.registerer.Register(c)
	p.counters[name] = c
	return counterAdapter{c}
}

// UpDownCounter returns (creating once) a Prometheus gauge for name.
func (p *Provider) UpDownCounter(name string, opts ...metrics.InstrumentOption) metrics.UpDownCounter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.updowns[name]; ok {
		return gaugeAdapter{g}
	}
	cfg := applyOptions(opts)
	g := promclient.NewGauge(promclient.GaugeOpts{Name: name, Help: cfg.Description})
	_ = p.registerer.Register(g)
	p.updowns[name] = g
	return gaugeAdapter{g}
}

// Histogram returns (creating once) a Prometheus histogram for name.
func (p *Provider) Histogram(name string, opts ...metrics.InstrumentOption) metrics.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return histogramAdapter{h}
	}
	cfg := applyOptions(opts)
	h := promclient.NewHistogram(promclient.HistogramOpts{Name: name, Help: cfg.Description})
	_ = p.registerer.Register(h)
	p.histograms[name] = h
	return histogramAdapter{h}
}

type counterAdapter struct{ c promclient.Counter }

func (a counterAdapter) Add(n int64) { a.c.Add(float64(n)) }

type gaugeAdapter struct{ g promclient.Gauge }

func (a gaugeAdapter) Add(n int64) { a.g.Add(float64(n)) }

type histogramAdapter struct{ h promclient.Histogram }

func (a histogramAdapter) Record(v float64) { a.h.Observe(v) }
