package engine

import "testing"

func TestClock_FirstAdvanceHasZeroDelta(t *testing.T) {
	var c Clock
	c.Advance(1000)

	if c.DtMS != 0 {
		t.Errorf("expected DtMS == 0 on first tick, got %v", c.DtMS)
	}
	if c.FrameCount != 1 {
		t.Errorf("expected FrameCount == 1, got %d", c.FrameCount)
	}
}

func TestClock_AdvanceComputesDelta(t *testing.T) {
	var c Clock
	c.Advance(0)
	c.Advance(16.67)

	if c.DtMS != 16.67 {
		t.Errorf("expected DtMS == 16.67, got %v", c.DtMS)
	}
	if c.FrameCount != 2 {
		t.Errorf("expected FrameCount == 2, got %d", c.FrameCount)
	}
}

func TestClock_NonMonotonicTickClampsToZero(t *testing.T) {
	var c Clock
	c.Advance(100)
	c.Advance(50)

	if c.DtMS != 0 {
		t.Errorf("expected a backwards tick to clamp to 0, got %v", c.DtMS)
	}
	if c.NowMS != 50 {
		t.Errorf("expected NowMS to still move to the reported timestamp, got %v", c.NowMS)
	}
}

func TestClock_Reset(t *testing.T) {
	var c Clock
	c.Advance(10)
	c.Advance(20)
	c.Reset()

	if c.started {
		t.Errorf("expected Reset to clear started flag")
	}
	if c.FrameCount != 0 || c.NowMS != 0 || c.DtMS != 0 {
		t.Errorf("expected Reset to zero all fields, got %+v", c)
	}
}
