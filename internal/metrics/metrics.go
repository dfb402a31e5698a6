// Package metrics wraps go-metrics counters for relay accounting.
package metrics

import (
	"io"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

func Incr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, gometrics.DefaultRegistry).Inc(i)
}

func Decr(name string, i int64) {
	gometrics.GetOrRegisterCounter(name, gometrics.DefaultRegistry).Dec(i)
}

// Report writes the registry as JSON to w every tick until the process
// exits.
func Report(tick time.Duration, w io.Writer) {
	go gometrics.WriteJSON(gometrics.DefaultRegistry, tick, w)
}
