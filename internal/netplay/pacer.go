package netplay

import (
	"math"
	"time"
)

// Pacer maintains a target-speed multiplier and a next-deadline
// timestamp, correcting drift reported by the Rollback Engine's
// TimeSync events while letting the Session Runner's throttle loop
// keep draining Transport during any sleep.
type Pacer struct {
	nominalPeriod time.Duration
	targetSpeed   float64
	framePeriod   time.Duration
	nextFrameTime time.Time

	recovering        bool
	recoveryAtFrame   uint32
}

// NewPacer derives frame_period from the Machine's nominal throttle
// frequency, e.g. 1s/60 for a 60Hz Machine.
func NewPacer(nominalPeriod time.Duration) *Pacer {
	return &Pacer{
		nominalPeriod: nominalPeriod,
		targetSpeed:   1.0,
		framePeriod:   nominalPeriod,
		nextFrameTime: time.Now(),
	}
}

// OnTimeSync applies a TimeSync{frameDelta, periodInFrames} event
// from the Rollback Engine, spreading the correction across
// 0.75 * periodInFrames frames per §4.5.
func (p *Pacer) OnTimeSync(currentFrame uint32, frameDelta int, periodInFrames int) {
	if math.Abs(float64(frameDelta)) < 1.0 {
		return
	}
	totalTime := float64(frameDelta) * float64(p.nominalPeriod) / 4
	perFrameDelta := -(totalTime / (0.75 * float64(periodInFrames)))
	p.framePeriod = p.nominalPeriod + time.Duration(perFrameDelta)
	p.targetSpeed = float64(p.framePeriod) / float64(p.nominalPeriod)

	p.recovering = true
	p.recoveryAtFrame = currentFrame + uint32(math.Ceil(0.75*float64(periodInFrames)))
}

// MaybeRecover snaps target_speed back to 1.0 once currentFrame
// reaches the scheduled recovery point.
func (p *Pacer) MaybeRecover(currentFrame uint32) {
	if p.recovering && currentFrame >= p.recoveryAtFrame {
		p.targetSpeed = 1.0
		p.framePeriod = p.nominalPeriod
		p.recovering = false
	}
}

// TargetSpeed reports the current speed multiplier, 1.0 at steady
// state.
func (p *Pacer) TargetSpeed() float64 { return p.targetSpeed }

// Throttle advances next_frame_time by one period and blocks until it
// is reached, calling poll in steps of at most 2 ms so that Transport
// keeps draining rather than starving behind an opaque sleep. poll is
// called with the deadline it should block no longer than; Throttle
// keeps looping until next_frame_time whatever poll observed.
func (p *Pacer) Throttle(poll func(deadline time.Time)) {
	p.nextFrameTime = p.nextFrameTime.Add(p.framePeriod)

	now := time.Now()
	backlog := now.Sub(p.nextFrameTime)
	if backlog > 8*p.framePeriod {
		// We are badly behind - drop the backlog instead of trying
		// to catch up frame-by-frame, and drain Transport once with
		// no wait.
		p.nextFrameTime = now
		poll(now)
		return
	}

	const sleepStep = 2 * time.Millisecond
	for {
		now = time.Now()
		if !now.Before(p.nextFrameTime) {
			return
		}
		deadline := now.Add(sleepStep)
		if p.nextFrameTime.Before(deadline) {
			deadline = p.nextFrameTime
		}
		poll(deadline)
	}
}
