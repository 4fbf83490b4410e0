package audio

import (
	"github.com/ebitengine/oto/v3"
)

// frameBytes is the size of one mono signed 16-bit frame.
const frameBytes = 2

// Output streams the live synth mix to the default audio device.
type Output struct {
	player *oto.Player
	done   chan struct{}
}

// NewOutput opens the device and starts pulling samples from the synth.
// The stream runs until Close; a closed output keeps serving silence so
// the device never starves.
func NewOutput(synth *Synth, sampleRate int) (*Output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	o := &Output{done: make(chan struct{})}
	o.player = ctx.NewPlayer(&mixReader{synth: synth, done: o.done})
	o.player.SetBufferSize(sampleRate / 10)
	o.player.Play()
	return o, nil
}

// Close silences the stream and releases the device player.
func (o *Output) Close() {
	close(o.done)
	if o.player != nil {
		o.player.Close()
	}
}

// mixReader adapts the synth mix to the byte stream the device pulls.
type mixReader struct {
	synth *Synth
	done  chan struct{}
	mix   []float64
}

func (r *mixReader) Read(p []byte) (int, error) {
	n := len(p) / frameBytes

	select {
	case <-r.done:
		for i := range p[:n*frameBytes] {
			p[i] = 0
		}
		return n * frameBytes, nil
	default:
	}

	if cap(r.mix) < n {
		r.mix = make([]float64, n)
	}
	r.mix = r.mix[:n]
	r.synth.ReadSamples(r.mix)

	for i, x := range r.mix {
		s := pcm16(x)
		p[2*i] = byte(s)
		p[2*i+1] = byte(s >> 8)
	}
	return n * frameBytes, nil
}

// pcm16 clamps a float sample to [-1, 1] and scales it to int16 range.
func pcm16(x float64) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32767
	}
	return int16(x * 32767)
}
