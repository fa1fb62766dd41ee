package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vovakirdan/demoloop/internal/core"
)

// traceVersion is the first byte of every encoded trace.
const traceVersion = 1

const (
	frameCursor = 1 << iota
	framePause
)

const (
	edgeReleased = 1 << iota
	edgeRepeat
)

// ErrBadTrace means a stored trace could not be decoded.
var ErrBadTrace = errors.New("storage: malformed trace")

// encodeTrace packs frames as: version, then per frame a flags byte, the
// delta as float32 bits, an optional cursor, a key count and two bytes per
// key event.
func encodeTrace(frames []core.FrameInput) []byte {
	if len(frames) == 0 {
		return nil
	}
	var buf bytes.Buffer
	buf.WriteByte(traceVersion)
	var scratch [binary.MaxVarintLen64]byte
	putF := func(f float32) {
		binary.LittleEndian.PutUint32(scratch[:4], math.Float32bits(f))
		buf.Write(scratch[:4])
	}

	for _, f := range frames {
		var flags byte
		if f.Cursor != nil {
			flags |= frameCursor
		}
		if f.Pause {
			flags |= framePause
		}
		buf.WriteByte(flags)
		putF(f.Delta)
		if f.Cursor != nil {
			putF(f.Cursor.X)
			putF(f.Cursor.Y)
		}
		n := binary.PutUvarint(scratch[:], uint64(len(f.Keys)))
		buf.Write(scratch[:n])
		for _, ev := range f.Keys {
			var edge byte
			if ev.Edge == core.Released {
				edge |= edgeReleased
			}
			if ev.Repeat {
				edge |= edgeRepeat
			}
			buf.WriteByte(byte(ev.Key))
			buf.WriteByte(edge)
		}
	}
	return buf.Bytes()
}

// decodeTrace is the inverse of encodeTrace. An empty blob is an empty trace.
func decodeTrace(data []byte) ([]core.FrameInput, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != traceVersion {
		return nil, fmt.Errorf("%w: version %d", ErrBadTrace, data[0])
	}
	r := bytes.NewReader(data[1:])
	getF := func() (float32, error) {
		var bits uint32
		err := binary.Read(r, binary.LittleEndian, &bits)
		return math.Float32frombits(bits), err
	}

	var frames []core.FrameInput
	for r.Len() > 0 {
		flags, _ := r.ReadByte()
		var f core.FrameInput
		var err error
		if f.Delta, err = getF(); err != nil {
			return nil, traceError(len(frames), err)
		}
		if flags&frameCursor != 0 {
			var c core.Vec2
			if c.X, err = getF(); err != nil {
				return nil, traceError(len(frames), err)
			}
			if c.Y, err = getF(); err != nil {
				return nil, traceError(len(frames), err)
			}
			f.Cursor = &c
		}
		f.Pause = flags&framePause != 0

		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, traceError(len(frames), err)
		}
		if n > uint64(r.Len())/2 {
			return nil, traceError(len(frames), io.ErrUnexpectedEOF)
		}
		if n > 0 {
			f.Keys = make([]core.KeyEvent, n)
		}
		for i := range f.Keys {
			k, _ := r.ReadByte()
			edge, _ := r.ReadByte()
			f.Keys[i] = core.KeyEvent{Key: core.Key(k), Edge: core.Pressed, Repeat: edge&edgeRepeat != 0}
			if edge&edgeReleased != 0 {
				f.Keys[i].Edge = core.Released
			}
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func traceError(frame int, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return fmt.Errorf("%w: frame %d: %w", ErrBadTrace, frame, err)
}
