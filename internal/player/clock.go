// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import "time"

// DefaultTickInterval is the cadence of [Tick] events.
const DefaultTickInterval = time.Second

// Ticker is the subset of [time.Ticker] a session needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Sessions take a Clock so tests can drive time.
type Clock interface {
	Now() time.Time
	NewTicker(interval time.Duration) Ticker
}

// SystemClock is the wall-clock [Clock].
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

// NewTicker implements [Clock].
func (SystemClock) NewTicker(interval time.Duration) Ticker {
	return systemTicker{ticker: time.NewTicker(interval)}
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t systemTicker) C() <-chan time.Time { return t.ticker.C }
func (t systemTicker) Stop()               { t.ticker.Stop() }
