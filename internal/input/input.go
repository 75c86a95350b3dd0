// Package input decodes terminal input bytes into pointer and key events.
package input

import (
	"context"
	"io"
	"time"
)

// EventType identifies what an Event reports.
type EventType int

const (
	EventMove    EventType = iota // Pointer moved (with or without a button held)
	EventPress                    // Button pressed
	EventRelease                  // Button released
	EventQuit                     // q, Esc or Ctrl-C
	EventKey                      // Any other key
)

// Event is one decoded input event. Col and Row are 0-based terminal cells
// for pointer events.
type Event struct {
	Type EventType
	Col  int
	Row  int
	Key  byte
}

// Bounds on how far the decoder scans for the end of a sequence. Longer
// sequences are dropped, so pending input never grows past them.
const (
	maxSGRLength = 32
	maxCSILength = 64
)

// escWait is how long a stream holds a trailing ESC for the rest of a
// sequence before reporting the Esc key.
const escWait = 100 * time.Millisecond

// Decoder turns a byte stream into events. It keeps incomplete escape
// sequences across calls so reports split over two reads still decode.
type Decoder struct {
	pending []byte
}

// Feed decodes data, appending events to dst. A lone ESC at the end of data
// stays pending: the next Feed decides whether it starts a sequence, and
// Flush reports it as the Esc key when no more input comes.
func (d *Decoder) Feed(dst []Event, data []byte) []Event {
	buf := data
	if len(d.pending) > 0 {
		buf = append(d.pending, data...)
		d.pending = nil
	}

	for i := 0; i < len(buf); {
		b := buf[i]
		if b != 0x1b {
			dst = append(dst, keyEvent(b))
			i++
			continue
		}

		rest := buf[i:]
		switch {
		case len(rest) == 1:
			d.pending = append(d.pending[:0], b)
			return dst
		case rest[1] != '[':
			// Alt+key or a bare Esc followed by typing
			dst = append(dst, Event{Type: EventQuit, Key: b})
			i++
		case len(rest) >= 3 && rest[2] == '<':
			n, ev, ok := parseSGRMouse(rest)
			if n == 0 {
				d.pending = append(d.pending[:0], rest...)
				return dst
			}
			if ok {
				dst = append(dst, ev)
			}
			i += n
		default:
			n := skipCSI(rest)
			if n == 0 {
				d.pending = append(d.pending[:0], rest...)
				return dst
			}
			i += n
		}
	}
	return dst
}

// PendingEsc reports whether the decoder holds a lone ESC.
func (d *Decoder) PendingEsc() bool {
	return len(d.pending) == 1 && d.pending[0] == 0x1b
}

// Flush reports a pending lone ESC as the Esc key. Longer partial sequences
// stay pending.
func (d *Decoder) Flush(dst []Event) []Event {
	if d.PendingEsc() {
		dst = append(dst, Event{Type: EventQuit, Key: 0x1b})
		d.pending = d.pending[:0]
	}
	return dst
}

func keyEvent(b byte) Event {
	switch b {
	case 'q', 'Q', 0x03:
		return Event{Type: EventQuit, Key: b}
	}
	return Event{Type: EventKey, Key: b}
}

// parseSGRMouse decodes ESC [ < Btn ; X ; Y (M|m). It returns the number of
// bytes consumed, or 0 if the report is incomplete. ok is false for reports
// that were consumed but carry nothing the banner uses.
func parseSGRMouse(data []byte) (n int, ev Event, ok bool) {
	end := 3
	for end < len(data) && end < maxSGRLength {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) {
		return 0, Event{}, false
	}
	if data[end] != 'M' && data[end] != 'm' {
		// Garbage: drop what was scanned
		return end, Event{}, false
	}

	btn, x, y, valid := parseSGRParams(data[3:end])
	if !valid {
		return end + 1, Event{}, false
	}

	// Bit 5 (32): motion, bit 6 (64): scroll
	ev = Event{Col: x - 1, Row: y - 1}
	switch {
	case btn&64 != 0:
		ev.Type = EventMove
	case btn&32 != 0:
		ev.Type = EventMove
	case data[end] == 'm':
		ev.Type = EventRelease
	default:
		ev.Type = EventPress
	}
	return end + 1, ev, true
}

// parseSGRParams parses "Btn;X;Y" without allocating.
func parseSGRParams(params []byte) (btn, x, y int, ok bool) {
	var vals [3]int
	idx := 0
	digits := 0
	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			vals[idx] = vals[idx]*10 + int(b-'0')
			digits++
		case b == ';':
			if digits == 0 || idx == 2 {
				return 0, 0, 0, false
			}
			idx++
			digits = 0
		default:
			return 0, 0, 0, false
		}
	}
	if idx != 2 || digits == 0 || vals[1] < 1 || vals[2] < 1 {
		return 0, 0, 0, false
	}
	return vals[0], vals[1], vals[2], true
}

// skipCSI returns the length of a CSI sequence (ESC [ params final), or 0 if
// it is incomplete. Sequences without a final byte within maxCSILength are
// cut there.
func skipCSI(data []byte) int {
	for i := 2; i < len(data); i++ {
		if i >= maxCSILength {
			return i
		}
		b := data[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1
		}
		if b < 0x20 || b > 0x7e {
			return i
		}
	}
	return 0
}

// Stream delivers decoded events via a channel.
type Stream struct {
	ch chan []Event
}

// StartStream spawns goroutines that read from r and send decoded event
// batches to the stream. A trailing ESC is held for escWait before it is
// reported as the Esc key. The channel is closed when r fails or ctx is
// done; a reader blocked in Read only notices ctx once the read returns.
func StartStream(ctx context.Context, r io.Reader) *Stream {
	s := &Stream{ch: make(chan []Event, 64)}
	reads := make(chan []byte)

	go func() {
		defer close(reads)
		for {
			buf := make([]byte, 256)
			n, err := r.Read(buf)
			if n > 0 {
				select {
				case reads <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	go func() {
		defer close(s.ch)
		send := func(events []Event) bool {
			if len(events) == 0 {
				return true
			}
			select {
			case s.ch <- events:
				return true
			case <-ctx.Done():
				return false
			}
		}

		var dec Decoder
		var escTimeout <-chan time.Time
		for {
			select {
			case data, ok := <-reads:
				if !ok {
					send(dec.Flush(nil))
					return
				}
				escTimeout = nil
				if !send(dec.Feed(nil, data)) {
					return
				}
				if dec.PendingEsc() {
					escTimeout = time.After(escWait)
				}
			case <-escTimeout:
				escTimeout = nil
				if !send(dec.Flush(nil)) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

// Events returns the channel of decoded event batches.
func (s *Stream) Events() <-chan []Event {
	return s.ch
}
