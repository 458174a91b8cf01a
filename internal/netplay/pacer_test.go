package netplay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPacerIgnoresSubFrameDrift(t *testing.T) {
	p := NewPacer(time.Second / 60)
	p.OnTimeSync(100, 0, 60)
	assert.Equal(t, 1.0, p.TargetSpeed())
	assert.False(t, p.recovering)
}

func TestPacerAppliesTimeSyncFormula(t *testing.T) {
	p := NewPacer(time.Second / 60)
	p.OnTimeSync(100, 4, 60)

	assert.True(t, p.recovering)
	assert.Equal(t, uint32(100+45), p.recoveryAtFrame) // ceil(0.75*60) = 45
	assert.Less(t, p.TargetSpeed(), 1.0)
}

func TestPacerRecoversAtScheduledFrame(t *testing.T) {
	p := NewPacer(time.Second / 60)
	p.OnTimeSync(100, 4, 60)
	recoverAt := p.recoveryAtFrame

	p.MaybeRecover(recoverAt - 1)
	assert.NotEqual(t, 1.0, p.TargetSpeed())

	p.MaybeRecover(recoverAt)
	assert.Equal(t, 1.0, p.TargetSpeed())
	assert.False(t, p.recovering)
}

func TestPacerNegativeFrameDeltaSpeedsUp(t *testing.T) {
	p := NewPacer(time.Second / 60)
	p.OnTimeSync(0, -4, 60)
	assert.Greater(t, p.TargetSpeed(), 1.0)
}
