package radial

import (
	"testing"
	"time"

	Rt "github.com/maroda/radial/types"
)

func TestFrameHub_SlowClient(t *testing.T) {
	h := NewFrameHub()
	slow := h.add()
	fast := h.add()
	defer h.Close()

	extra := 3
	done := make(chan struct{})
	var got []Rt.Frame
	go func() {
		defer close(done)
		for i := 0; i < clientBuffer+extra; i++ {
			h.WriteFrame(Rt.Frame{Time: time.Unix(int64(i), 0)})
			got = append(got, <-fast.send)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WriteFrame blocked on a full client")
	}

	if h.Dropped != extra {
		t.Errorf("got %d dropped frames, want %d", h.Dropped, extra)
	}
	if len(got) != clientBuffer+extra {
		t.Errorf("fast client got %d frames, want %d", len(got), clientBuffer+extra)
	}

	// the slow client keeps the oldest frames it had room for
	if len(slow.send) != clientBuffer {
		t.Fatalf("slow client holds %d frames, want %d", len(slow.send), clientBuffer)
	}
	for i := 0; i < clientBuffer; i++ {
		f := <-slow.send
		if f.Time.Unix() != int64(i) {
			t.Errorf("frame %d has time %d", i, f.Time.Unix())
		}
	}
}
