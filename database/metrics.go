package database

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

func archives(class, backend string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`objectbase_archives_total{class=%q,backend=%q}`, class, backend))
}

func deletes(class, backend string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`objectbase_deletes_total{class=%q,backend=%q}`, class, backend))
}

func storageErrors(class, backend string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`objectbase_storage_errors_total{class=%q,backend=%q}`, class, backend))
}

func decodeFailures(class string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`objectbase_decode_failures_total{class=%q}`, class))
}

func queries(class string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`objectbase_queries_total{class=%q}`, class))
}

func queryDuration(class string) *metrics.Histogram {
	return metrics.GetOrCreateHistogram(fmt.Sprintf(`objectbase_query_duration_seconds{class=%q}`, class))
}

// WriteMetrics writes all objectbase metrics in Prometheus text format to w.
func WriteMetrics(w io.Writer) {
	metrics.WritePrometheus(w, false)
}
