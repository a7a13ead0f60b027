// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/zled/internal/player"
)

/*
TestInputMapper_Key maps keyboard navigation.
*/
func TestInputMapper_Key(t *testing.T) {
	mapper := player.NewInputMapper(0)

	tests := []struct {
		key   string
		event player.Event
		ok    bool
	}{
		{player.KeyArrowRight, player.Next{}, true},
		{player.KeySpace, player.Next{}, true},
		{player.KeySpaceName, player.Next{}, true},
		{player.KeyArrowLeft, player.Prev{}, true},
		{"Enter", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			event, ok := mapper.Key(tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.event, event)
		})
	}
}

/*
TestInputMapper_Swipe checks direction, threshold and axis dominance.
*/
func TestInputMapper_Swipe(t *testing.T) {
	mapper := player.NewInputMapper(0)

	tests := []struct {
		name   string
		dx, dy float64
		event  player.Event
		ok     bool
	}{
		{"left_is_next", -120, 10, player.Next{}, true},
		{"right_is_prev", 120, -10, player.Prev{}, true},
		{"at_threshold_ignored", 50, 0, nil, false},
		{"just_over_threshold", -51, 0, player.Next{}, true},
		{"vertical_dominant", -80, 90, nil, false},
		{"diagonal_tie", 80, 80, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := mapper.Swipe(tt.dx, tt.dy)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.event, event)
		})
	}
}

/*
TestInputMapper_SwipeThreshold honours a custom threshold.
*/
func TestInputMapper_SwipeThreshold(t *testing.T) {
	mapper := player.NewInputMapper(100)

	_, ok := mapper.Swipe(-80, 0)
	assert.False(t, ok)

	event, ok := mapper.Swipe(-101, 0)
	assert.True(t, ok)
	assert.Equal(t, player.Next{}, event)
}

/*
TestInputMapper_Tap maps the side zones.
*/
func TestInputMapper_Tap(t *testing.T) {
	mapper := player.NewInputMapper(0)

	tests := []struct {
		name  string
		x     float64
		width float64
		event player.Event
		ok    bool
	}{
		{"left_edge", 10, 1000, player.Prev{}, true},
		{"right_edge", 990, 1000, player.Next{}, true},
		{"centre_goes_forward", 500, 1000, player.Next{}, true},
		{"outside", 1200, 1000, nil, false},
		{"no_width", 10, 0, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, ok := mapper.Tap(tt.x, tt.width)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.event, event)
		})
	}
}
