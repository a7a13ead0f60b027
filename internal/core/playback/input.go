// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playback

import (
	"github.com/taibuivan/zled/internal/platform/validate"
	"github.com/taibuivan/zled/internal/player"
)

// Input types accepted by the input endpoint.
const (
	InputKey    = "key"
	InputSwipe  = "swipe"
	InputTap    = "tap"
	InputResize = "resize"
)

// Input is raw client input. Only the fields of its Type are read.
type Input struct {
	Type    string  `json:"type"`
	Key     string  `json:"key"`
	DX      float64 `json:"dx"`
	DY      float64 `json:"dy"`
	X       float64 `json:"x"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Density float64 `json:"density"`
}

func (input Input) event(mapper player.InputMapper, current player.Viewport) (player.Event, bool, error) {
	switch input.Type {
	case InputKey:
		event, ok := mapper.Key(input.Key)
		return event, ok, nil
	case InputSwipe:
		event, ok := mapper.Swipe(input.DX, input.DY)
		return event, ok, nil
	case InputTap:
		event, ok := mapper.Tap(input.X, current.Width)
		return event, ok, nil
	case InputResize:
		viewport, err := parseViewport(input.Width, input.Height, input.Density)
		if err != nil {
			return nil, false, err
		}
		return mapper.Resize(viewport), true, nil
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldType, input.Type, InputKey, InputSwipe, InputTap, InputResize)
	return nil, false, validator.Err()
}

func parseViewport(width, height, density float64) (player.Viewport, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldWidth, width <= 0, "Must be positive")
	validator.Custom(FieldHeight, height <= 0, "Must be positive")
	validator.Custom(FieldDensity, density < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return player.Viewport{}, err
	}

	if density == 0 {
		density = 1
	}
	return player.Viewport{Width: width, Height: height, Density: density}, nil
}

const (
	FieldScreenID = "screen_id"
	FieldType     = "type"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldDensity  = "density"
)
