package network

import "testing"

func TestAcquireBufferReturnsEmptyBuffer(t *testing.T) {
	buf := AcquireBuffer()
	defer ReleaseBuffer(buf)

	if buf == nil {
		t.Fatal("AcquireBuffer returned nil")
	}
	if len(*buf) != 0 {
		t.Errorf("buffer length = %d, want 0", len(*buf))
	}
	if cap(*buf) < DefaultBufferSize {
		t.Errorf("buffer capacity = %d, want >= %d", cap(*buf), DefaultBufferSize)
	}
}

func TestReleaseBufferResetsLength(t *testing.T) {
	buf := AcquireBuffer()
	*buf = append(*buf, 1, 2, 3, 4, 5)
	ReleaseBuffer(buf)

	buf2 := AcquireBuffer()
	defer ReleaseBuffer(buf2)
	if len(*buf2) != 0 {
		t.Errorf("recycled buffer length = %d, want 0", len(*buf2))
	}
}

func TestReleaseBufferNilSafe(t *testing.T) {
	ReleaseBuffer(nil)
}

func TestPoolSurvivesEncodeSizedGrowth(t *testing.T) {
	buf := AcquireBuffer()
	big := make([]byte, DefaultBufferSize*2)
	*buf = append(*buf, big...)
	ReleaseBuffer(buf)

	buf2 := AcquireBuffer()
	defer ReleaseBuffer(buf2)
	if len(*buf2) != 0 {
		t.Errorf("grown buffer not reset: length = %d", len(*buf2))
	}
}
