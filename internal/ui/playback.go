package ui

// Playback is the cursor over recorded frames. Advance is called once per
// screen update; while playing, each frame stays up for interval updates.
type Playback struct {
	total    int
	index    int
	playing  bool
	interval int
	timer    int
}

const (
	minInterval = 1
	maxInterval = 60
)

func NewPlayback(total, interval int) *Playback {
	if interval < minInterval {
		interval = minInterval
	}
	return &Playback{total: total, interval: interval}
}

func (p *Playback) Index() int    { return p.index }
func (p *Playback) Playing() bool { return p.playing }
func (p *Playback) Interval() int { return p.interval }

// AtEnd reports whether the cursor is on the last frame
func (p *Playback) AtEnd() bool {
	return p.index >= p.total-1
}

// Step moves the cursor by delta frames, clamped to the recording
func (p *Playback) Step(delta int) {
	p.Seek(p.index + delta)
}

// Seek moves the cursor to frame i, clamped to the recording
func (p *Playback) Seek(i int) {
	switch {
	case i < 0 || p.total == 0:
		i = 0
	case i >= p.total:
		i = p.total - 1
	}
	p.index = i
	p.timer = 0
}

// Toggle starts or pauses playback. Playing from the last frame restarts.
func (p *Playback) Toggle() {
	if !p.playing && p.AtEnd() {
		p.Seek(0)
	}
	p.playing = !p.playing
	p.timer = 0
}

// Faster halves the time each frame stays up
func (p *Playback) Faster() {
	p.interval = max(p.interval/2, minInterval)
}

// Slower doubles the time each frame stays up
func (p *Playback) Slower() {
	p.interval = min(p.interval*2, maxInterval)
}

// Advance moves one frame forward once the interval elapsed and pauses at the end
func (p *Playback) Advance() {
	if !p.playing {
		return
	}
	p.timer++
	if p.timer < p.interval {
		return
	}
	p.timer = 0
	if p.AtEnd() {
		p.playing = false
		return
	}
	p.index++
}
