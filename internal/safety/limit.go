package safety

import "bytes"

// LimitedBuffer accumulates writes until more than Max bytes have been seen,
// after which every Write fails with ErrOutputTooLarge and the buffer is
// dropped.
type LimitedBuffer struct {
	Max      int
	buf      bytes.Buffer
	exceeded bool
}

// NewLimitedBuffer returns a buffer capped at max bytes.
func NewLimitedBuffer(max int) *LimitedBuffer {
	return &LimitedBuffer{Max: max}
}

func (b *LimitedBuffer) Write(p []byte) (int, error) {
	if b.exceeded {
		return 0, ErrOutputTooLarge
	}
	if b.buf.Len()+len(p) > b.Max {
		b.exceeded = true
		b.buf.Reset()
		return 0, ErrOutputTooLarge
	}
	return b.buf.Write(p)
}

// Exceeded reports whether the cap was crossed.
func (b *LimitedBuffer) Exceeded() bool {
	return b.exceeded
}

func (b *LimitedBuffer) String() string {
	return b.buf.String()
}

func (b *LimitedBuffer) Len() int {
	return b.buf.Len()
}
