// Copyright (c) 2026 Zled. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kiosk

import (
	"bufio"
	"fmt"
	"image/png"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/taibuivan/zled/internal/player"
)

// FrameSink writes drawn frames to one PNG file. Readers never see a
// partially written image: each frame goes to a temporary file that is then
// renamed over the target.
type FrameSink struct {
	fs      afero.Fs
	path    string
	lastSeq uint64
}

// NewFrameSink returns a sink writing to path on filesystem.
func NewFrameSink(filesystem afero.Fs, path string) *FrameSink {
	return &FrameSink{fs: filesystem, path: path}
}

// Write stores frame unless it was already written. It reports whether a
// file was written.
func (sink *FrameSink) Write(frame *player.Frame) (bool, error) {
	if frame == nil || frame.Image == nil || (frame.Seq != 0 && frame.Seq == sink.lastSeq) {
		return false, nil
	}

	if dir := filepath.Dir(sink.path); dir != "." {
		if err := sink.fs.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("kiosk: create frame dir: %w", err)
		}
	}

	temporary := sink.path + ".tmp"
	file, err := sink.fs.Create(temporary)
	if err != nil {
		return false, fmt.Errorf("kiosk: create frame: %w", err)
	}

	buffered := bufio.NewWriter(file)
	err = png.Encode(buffered, frame.Image)
	if err == nil {
		err = buffered.Flush()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = sink.fs.Remove(temporary)
		return false, fmt.Errorf("kiosk: encode frame: %w", err)
	}

	if err := sink.fs.Rename(temporary, sink.path); err != nil {
		return false, fmt.Errorf("kiosk: publish frame: %w", err)
	}

	sink.lastSeq = frame.Seq
	return true, nil
}
