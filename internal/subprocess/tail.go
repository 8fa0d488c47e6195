package subprocess

import "unicode/utf8"

// tailBuffer keeps the most recent max bytes written to it.
type tailBuffer struct {
	buf       []byte
	max       int
	truncated bool
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{max: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)

	if len(p) >= t.max {
		t.buf = append(t.buf[:0], p[len(p)-t.max:]...)
		t.truncated = true

		return n, nil
	}

	if over := len(t.buf) + len(p) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
		t.truncated = true
	}

	t.buf = append(t.buf, p...)

	return n, nil
}

// String returns the retained tail. After truncation a partial leading UTF-8
// sequence is dropped.
func (t *tailBuffer) String() string {
	b := t.buf

	if t.truncated {
		for len(b) > 0 && !utf8.RuneStart(b[0]) {
			b = b[1:]
		}
	}

	return string(b)
}
