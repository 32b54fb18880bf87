// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package dlbind

import (
	"maps"
	"sync"
	"time"
)

// Stats stores the calls made through the symbols of a [Library].
type Stats struct {
	// Calls is the number of calls per symbol name.
	Calls map[string]uint64
	// Timers is the cumulated time spent in each symbol, argument conversion
	// included.
	Timers map[string]time.Duration
}

const (
	callsTag    = "calls"
	durationTag = "duration"
)

// Metrics flattens the stats into a map of key value metrics, keyed
// `<symbol>.calls` and `<symbol>.duration`. Durations are in microseconds.
func (stats Stats) Metrics() map[string]any {
	tags := make(map[string]any, len(stats.Calls)+len(stats.Timers))
	for symbol, count := range stats.Calls {
		tags[key(symbol, callsTag)] = count
	}
	for symbol, v := range stats.Timers {
		tags[key(symbol, durationTag)] = float64(v.Nanoseconds()) / float64(time.Microsecond)
	}
	return tags
}

func key(symbol string, component string) string {
	return symbol + "." + component
}

type statsStore struct {
	mutex  sync.Mutex
	calls  map[string]uint64
	timers map[string]time.Duration
}

func (store *statsStore) add(symbol string, duration time.Duration) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	if store.calls == nil {
		store.calls = make(map[string]uint64, 8)
		store.timers = make(map[string]time.Duration, 8)
	}

	store.calls[symbol]++
	store.timers[symbol] += duration
}

func (store *statsStore) snapshot() Stats {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	return Stats{
		Calls:  maps.Clone(store.calls),
		Timers: maps.Clone(store.timers),
	}
}
