package app

import (
	"log"
	"net/http"
	"time"

	"coref/alg/perceptron"
	"coref/eval"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors updated while training.
type Metrics struct {
	Registry         *prometheus.Registry
	Epoch            *prometheus.GaugeVec
	UpdatesTotal     *prometheus.CounterVec
	Corrections      *prometheus.GaugeVec
	Norm             *prometheus.GaugeVec
	HeldoutAccuracy  *prometheus.GaugeVec
	F1               *prometheus.GaugeVec
	EpochDuration    prometheus.Histogram
	DocumentsApplied prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Epoch: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coref_train_epoch",
				Help: "Last completed training epoch by class.",
			},
			[]string{"class"},
		),
		UpdatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coref_train_updates_total",
				Help: "Perceptron updates by class and direction (positive, negative).",
			},
			[]string{"class", "direction"},
		),
		Corrections: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coref_train_corrections",
				Help: "Corrections recorded so far by class.",
			},
			[]string{"class"},
		),
		Norm: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coref_train_weight_norm",
				Help: "Norm of the weight vector after the last epoch.",
			},
			[]string{"class"},
		),
		HeldoutAccuracy: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coref_train_heldout_accuracy",
				Help: "Pairwise accuracy on the held-out set after the last epoch.",
			},
			[]string{"class"},
		),
		F1: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "coref_heldout_f1",
				Help: "Held-out F1 by metric (pairwise, bcubed, muc).",
			},
			[]string{"metric"},
		),
		EpochDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coref_train_epoch_duration_seconds",
				Help:    "Wall time of a training epoch.",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
		),
		DocumentsApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "coref_documents_applied_total",
				Help: "Documents resolved into clusters by the final model.",
			},
		),
	}
	m.Registry.MustRegister(
		m.Epoch,
		m.UpdatesTotal,
		m.Corrections,
		m.Norm,
		m.HeldoutAccuracy,
		m.F1,
		m.EpochDuration,
		m.DocumentsApplied,
	)
	return m
}

func (m *Metrics) ObserveEpoch(stats perceptron.EpochStats, elapsed time.Duration) {
	m.Epoch.WithLabelValues(stats.Class).Set(float64(stats.Epoch))
	m.UpdatesTotal.WithLabelValues(stats.Class, "positive").Add(float64(stats.Positive))
	m.UpdatesTotal.WithLabelValues(stats.Class, "negative").Add(float64(stats.Negative))
	m.Corrections.WithLabelValues(stats.Class).Set(float64(stats.Corrections))
	m.Norm.WithLabelValues(stats.Class).Set(stats.Norm)
	if stats.HeldoutTotal > 0 {
		m.HeldoutAccuracy.WithLabelValues(stats.Class).Set(stats.HeldoutAccuracy())
	}
	m.EpochDuration.Observe(elapsed.Seconds())
}

// ObserveReport records the F1 scores of a held-out evaluation.
func (m *Metrics) ObserveReport(r *eval.Report) {
	m.F1.WithLabelValues("pairwise").Set(r.Pairs.F1())
	m.F1.WithLabelValues("bcubed").Set(r.BCubed.F1())
	m.F1.WithLabelValues("muc").Set(r.MUC.F1())
}

// ObserveFinal records the report of the final model over docs documents.
func (m *Metrics) ObserveFinal(r *eval.Report, docs int) {
	m.ObserveReport(r)
	m.DocumentsApplied.Add(float64(docs))
}

// Serve exposes /metrics and the net/http/pprof handlers registered on the default
// mux at addr until the process exits.
func (m *Metrics) Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	server := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 5 * time.Second,
	}
	go func() {
		log.Println("Serving metrics on", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("Metrics server error:", err)
		}
	}()
}
