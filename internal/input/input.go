// Package input turns the raw byte stream of a terminal in raw mode into
// per-frame key and mouse state.
package input

import (
	"bufio"
)

// maxSeqLen bounds how far an escape sequence is scanned for its terminator.
const maxSeqLen = 32

// Click is a mouse press at a 1-based terminal cell.
type Click struct {
	Col, Row int
}

// Input is what happened during one frame. Keys are edge-triggered: a flag
// is set only in the frame its byte arrived.
type Input struct {
	Quit    bool
	Start   bool // Space or Enter
	Restart bool
	Click   *Click // First left-button press of the frame, if any
	Clicks  int    // Left-button presses received this frame
	Active  bool   // Any key or mouse event arrived
}

// Stream delivers input bytes from a reader goroutine.
type Stream struct {
	ch      chan byte
	pending []byte // Incomplete escape sequence from the previous frame
	closed  bool
}

// StartStream spawns a goroutine reading r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 256)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the reader has hit EOF or an error.
func (s *Stream) Closed() bool { return s.closed }

// ReadInput drains the bytes available right now without blocking and
// parses them.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := Parse(buf)
	if len(rest) > 0 && !s.closed {
		s.pending = append([]byte(nil), rest...)
	}
	return in
}

// Parse decodes buf. A trailing mouse sequence cut off mid-way is returned
// as rest so the caller can prepend it to the next read.
func Parse(buf []byte) (in Input, rest []byte) {
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// ESC or ESC [ at the very end may be the start of a mouse
		// sequence split across reads.
		if b == '\x1b' && (i+1 == len(buf) || (i+2 == len(buf) && buf[i+1] == '[')) {
			return in, buf[i:]
		}

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if buf[i+2] == '<' {
				n, ev, complete := parseSGRMouse(buf[i:])
				if !complete {
					return in, buf[i:]
				}
				if n > 0 {
					in.Active = true
					if ev.press && ev.button == buttonLeft {
						in.Clicks++
						if in.Click == nil {
							in.Click = &Click{Col: ev.col, Row: ev.row}
						}
					}
					i += n - 1
					continue
				}
			}
			// Arrow keys and the like carry no meaning here.
			if c := buf[i+2]; c >= 'A' && c <= 'D' {
				in.Active = true
				i += 2
				continue
			}
		}

		in.Active = true
		switch b {
		case 'q', 'Q', 3: // 3 is Ctrl+C in raw mode
			in.Quit = true
		case ' ', '\r', '\n':
			in.Start = true
		case 'r', 'R':
			in.Restart = true
		}
	}
	return in, nil
}

const (
	buttonLeft = iota
	buttonMiddle
	buttonRight
	buttonNone
)

type mouseEvent struct {
	button   int
	press    bool
	col, row int
}

// parseSGRMouse decodes ESC [ < Btn ; X ; Y (M|m). It returns the sequence
// length, or complete=false when data ends before the terminator. A
// malformed sequence yields n == 0.
func parseSGRMouse(data []byte) (n int, ev mouseEvent, complete bool) {
	end := 3
	for end < len(data) && end < maxSeqLen && data[end] != 'M' && data[end] != 'm' {
		end++
	}
	if end >= len(data) {
		return 0, ev, end >= maxSeqLen
	}
	if data[end] != 'M' && data[end] != 'm' {
		return 0, ev, true
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		return 0, ev, true
	}

	// Bits 0-1 select the button, 32 marks motion, 64 the wheel.
	ev.button = btn & 0x03
	motion := btn&32 != 0
	wheel := btn&64 != 0
	ev.press = data[end] == 'M' && !motion && !wheel
	ev.col, ev.row = x, y
	return end + 1, ev, true
}

// parseSGRParams splits "Btn;X;Y".
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	field, val := 0, 0
	digits := false
	for _, b := range data {
		switch {
		case b == ';':
			if !digits || field == 2 {
				return 0, 0, 0, false
			}
			if field == 0 {
				btn = val
			} else {
				x = val
			}
			field++
			val, digits = 0, false
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			digits = true
			if val > 9999 {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}
	if field != 2 || !digits {
		return 0, 0, 0, false
	}
	return btn, x, val, true
}
