// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prompt

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// ErrInterrupted is returned when the context ends while waiting for input
var ErrInterrupted = errors.Base("interrupted while reading input")

type lineEvent struct {
	text string
	eof  bool
}

// 📥 Input delivers lines from a reader without blocking the caller's
// ability to observe cancellation.
//
// An interactive input (a terminal) keeps reading after end-of-file, since
// Ctrl-D only ends the current block. A non-interactive input is exhausted
// after its first end-of-file.
type Input struct {
	events      chan lineEvent
	stop        chan struct{}
	stopOnce    sync.Once
	interactive bool
	exhausted   bool
}

// NewInput starts pumping lines from r
func NewInput(r io.Reader, interactive bool) *Input {
	in := &Input{
		events:      make(chan lineEvent),
		stop:        make(chan struct{}),
		interactive: interactive,
	}
	go in.pump(r)
	return in
}

// Interactive reports whether end-of-file only ends the current block
func (in *Input) Interactive() bool {
	return in.interactive
}

// Exhausted reports whether a non-interactive input has no more lines
func (in *Input) Exhausted() bool {
	return in.exhausted
}

// Close stops the pump. A pump blocked inside Read stays blocked until the
// reader returns.
func (in *Input) Close() {
	in.stopOnce.Do(func() { close(in.stop) })
}

func (in *Input) send(ev lineEvent) bool {
	select {
	case in.events <- ev:
		return true
	case <-in.stop:
		return false
	}
}

func (in *Input) pump(r io.Reader) {
	defer close(in.events)

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if !in.send(lineEvent{text: trimEOL(line)}) {
				return
			}
		}
		if err == nil {
			continue
		}

		// read failures end the block like end-of-file does
		if in.interactive && errors.Is(err, io.EOF) {
			if !in.send(lineEvent{eof: true}) {
				return
			}
			continue
		}
		return
	}
}

// ReadBlock collects lines until end-of-file, a line equal to endMarker (when
// set) or exhaustion, and returns them joined with "\n".
func (in *Input) ReadBlock(ctx context.Context, endMarker string) (string, error) {
	var lines []string
	for {
		if ctx.Err() != nil {
			return "", errors.WithStack(ErrInterrupted)
		}
		select {
		case <-ctx.Done():
			return "", errors.WithStack(ErrInterrupted)
		case ev, ok := <-in.events:
			if !ok {
				in.exhausted = true
				return strings.Join(lines, "\n"), nil
			}
			if ev.eof {
				return strings.Join(lines, "\n"), nil
			}
			if endMarker != "" && ev.text == endMarker {
				return strings.Join(lines, "\n"), nil
			}
			lines = append(lines, ev.text)
		}
	}
}

// ReadAllBlock reads r to the end and returns its lines joined with "\n",
// the same text an Input block would produce.
func ReadAllBlock(r io.Reader) (string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, trimEOL(line))
		}
		if errors.Is(err, io.EOF) {
			return strings.Join(lines, "\n"), nil
		}
		if err != nil {
			return "", errors.Errorf("reading block: %w", err)
		}
	}
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
