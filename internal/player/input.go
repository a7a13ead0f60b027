// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package player

import "math"

// DefaultSwipeThreshold is the minimum horizontal travel of a swipe, in CSS pixels.
const DefaultSwipeThreshold = 50.0

// Key names as reported by browsers (KeyboardEvent.key).
const (
	KeyArrowRight = "ArrowRight"
	KeyArrowLeft  = "ArrowLeft"
	KeySpace      = " "
	KeySpaceName  = "Space"
)

// InputMapper turns raw pointer and keyboard input into machine events, so
// that every navigation source shares the same transitions.
type InputMapper struct {
	SwipeThreshold float64
}

// NewInputMapper returns a mapper; a non-positive threshold falls back to
// [DefaultSwipeThreshold].
func NewInputMapper(swipeThreshold float64) InputMapper {
	if swipeThreshold <= 0 {
		swipeThreshold = DefaultSwipeThreshold
	}
	return InputMapper{SwipeThreshold: swipeThreshold}
}

// Key maps a key press. The boolean is false for keys without a meaning.
func (mapper InputMapper) Key(key string) (Event, bool) {
	switch key {
	case KeyArrowRight, KeySpace, KeySpaceName:
		return Next{}, true
	case KeyArrowLeft:
		return Prev{}, true
	}
	return nil, false
}

// Swipe maps a gesture delta (end minus start). Short and vertical-dominant
// swipes are ignored; a leftward swipe moves forward.
func (mapper InputMapper) Swipe(deltaX, deltaY float64) (Event, bool) {
	threshold := mapper.SwipeThreshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}

	if math.Abs(deltaX) <= threshold || math.Abs(deltaX) <= math.Abs(deltaY) {
		return nil, false
	}

	if deltaX < 0 {
		return Next{}, true
	}
	return Prev{}, true
}

// Tap maps a tap on the side zones of the player: the left half goes back,
// the right half goes forward.
func (mapper InputMapper) Tap(positionX, viewportWidth float64) (Event, bool) {
	if viewportWidth <= 0 || positionX < 0 || positionX > viewportWidth {
		return nil, false
	}
	if positionX < viewportWidth/2 {
		return Prev{}, true
	}
	return Next{}, true
}

// Resize maps a viewport change.
func (mapper InputMapper) Resize(viewport Viewport) Event {
	return Resize{Viewport: viewport}
}
