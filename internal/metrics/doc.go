// Package metrics provides build and watch observability for chloroplast.
//
// Components receive a Recorder through their options and fall back to
// NoopRecorder. The preview server uses a PrometheusRecorder and exposes it
// on /metrics:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	bc := build.NewContext(cfg, build.Options{Recorder: rec})
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
