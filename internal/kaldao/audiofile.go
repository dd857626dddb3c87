package kaldao

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dh1tw/gosamplerate"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"
)

const (
	frameBytes = ChannelCount * 4 // float32 LE per channel

	// Per-band gains lift typical music RMS into the [0,1] range the
	// mapper expects. Peak normalization at load keeps these stable.
	bassGain   = 6.0
	midGain    = 8.0
	trebleGain = 10.0

	levelAttack  = 0.55
	levelRelease = 0.18
)

// bandAnalyzer splits a mono stream into bass/mid/treble energy with a
// two-crossover filterbank, RMS over fixed hops and attack/release
// smoothed envelopes.
type bandAnalyzer struct {
	lowX  *svf // crossover at BassCrossoverHz
	highX *svf // crossover at TrebleCrossoverHz

	hop       int
	n         int
	sumBass   float64
	sumMid    float64
	sumTreble float64

	mu  sync.Mutex
	env Levels
}

func newBandAnalyzer(sampleRate float64) *bandAnalyzer {
	q := math.Sqrt2 / 2
	return &bandAnalyzer{
		lowX:  newSVF(BassCrossoverHz, q, sampleRate),
		highX: newSVF(TrebleCrossoverHz, q, sampleRate),
		hop:   AnalysisHop,
	}
}

func (a *bandAnalyzer) push(x float64) {
	lo, _, rest := a.lowX.Process(x)
	mid, _, hi := a.highX.Process(rest)
	a.sumBass += lo * lo
	a.sumMid += mid * mid
	a.sumTreble += hi * hi
	a.n++
	if a.n >= a.hop {
		a.flush()
	}
}

func (a *bandAnalyzer) flush() {
	inv := 1 / float64(a.n)
	bass := clamp01(math.Sqrt(a.sumBass*inv) * bassGain)
	mid := clamp01(math.Sqrt(a.sumMid*inv) * midGain)
	treble := clamp01(math.Sqrt(a.sumTreble*inv) * trebleGain)
	overall := clamp01(0.45*bass + 0.35*mid + 0.2*treble)
	a.n, a.sumBass, a.sumMid, a.sumTreble = 0, 0, 0, 0

	a.mu.Lock()
	a.env.Bass = approachLevel(a.env.Bass, bass)
	a.env.Mid = approachLevel(a.env.Mid, mid)
	a.env.Treble = approachLevel(a.env.Treble, treble)
	a.env.Overall = approachLevel(a.env.Overall, overall)
	a.mu.Unlock()
}

func approachLevel(env, target float64) float64 {
	k := levelRelease
	if target > env {
		k = levelAttack
	}
	return env + (target-env)*k
}

func (a *bandAnalyzer) Levels() Levels {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.env
}

func (a *bandAnalyzer) reset() {
	a.lowX.reset()
	a.highX.reset()
	a.n, a.sumBass, a.sumMid, a.sumTreble = 0, 0, 0, 0
	a.mu.Lock()
	a.env = Levels{}
	a.mu.Unlock()
}

// trackReader streams a decoded track into oto and taps every frame
// into the analyzer, so levels track the consumed stream position.
// Playback loops until the player is paused or closed.
type trackReader struct {
	data []byte
	pos  int
	an   *bandAnalyzer
}

func (r *trackReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	if r.pos >= len(r.data) {
		r.pos = 0
	}
	n := copy(p, r.data[r.pos:])
	if n >= frameBytes {
		n -= n % frameBytes // keep the stream frame aligned
	}
	for i := 0; i+frameBytes <= n; i += frameBytes {
		l := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.pos+i:]))
		rr := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.pos+i+4:]))
		r.an.push(float64(l+rr) * 0.5)
	}
	r.pos += n
	return n, nil
}

// FilePlayer decodes an audio file, plays it through oto and exposes
// band levels to the mapper. It satisfies LevelSource.
type FilePlayer struct {
	ctx   *oto.Context
	ready chan struct{}
	an    *bandAnalyzer

	mu       sync.Mutex
	player   oto.Player
	name     string
	reactive bool
	volume   float64
}

func NewFilePlayer() (*FilePlayer, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, fmt.Errorf("audio: init context: %w", err)
	}
	return &FilePlayer{
		ctx:      ctx,
		ready:    ready,
		an:       newBandAnalyzer(SampleRate),
		reactive: true,
		volume:   1,
	}, nil
}

// Load decodes path, replaces the current track and starts playback.
func (p *FilePlayer) Load(path string) error {
	pcm, err := decodeTrack(path)
	if err != nil {
		return err
	}
	<-p.ready

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
	p.an.reset()
	pl := p.ctx.NewPlayer(&trackReader{data: pcm, an: p.an})
	pl.SetVolume(p.volume)
	pl.Play()
	p.player = pl
	p.name = filepath.Base(path)
	return nil
}

// TogglePlayback pauses or resumes the loaded track and reports
// whether it is now playing.
func (p *FilePlayer) TogglePlayback() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player == nil {
		return false
	}
	if p.player.IsPlaying() {
		p.player.Pause()
		return false
	}
	p.player.Play()
	return true
}

// ToggleReactive flips whether levels reach the mapper and reports the
// new setting. Playback itself is unaffected.
func (p *FilePlayer) ToggleReactive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reactive = !p.reactive
	return p.reactive
}

func (p *FilePlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampF(v, 0, 1)
	if p.player != nil {
		p.player.SetVolume(p.volume)
	}
}

func (p *FilePlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

func (p *FilePlayer) Name() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.name
}

// Active reports whether audio should drive the visuals this frame.
func (p *FilePlayer) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reactive && p.player != nil && p.player.IsPlaying()
}

func (p *FilePlayer) Levels() Levels {
	return p.an.Levels()
}

func (p *FilePlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.player != nil {
		p.player.Close()
		p.player = nil
	}
}

// decodeTrack reads a WAV or MP3 file into interleaved stereo float32
// LE bytes at SampleRate, resampling and peak normalizing as needed.
func decodeTrack(path string) ([]byte, error) {
	var (
		samples []float32
		rate    int
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, rate, err = decodeWAV(path)
	case ".mp3":
		samples, rate, err = decodeMP3(path)
	default:
		return nil, fmt.Errorf("audio: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("audio: %s contains no samples", path)
	}
	if rate != SampleRate {
		samples, err = gosamplerate.Simple(samples, float64(SampleRate)/float64(rate), ChannelCount, gosamplerate.SRC_SINC_FASTEST)
		if err != nil {
			return nil, fmt.Errorf("audio: resample %s: %w", path, err)
		}
	}
	normalizePeak(samples)

	pcm := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(pcm[i*4:], math.Float32bits(s))
	}
	return pcm, nil
}

func decodeWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("audio: %s is not a valid wav file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	bd := buf.SourceBitDepth
	if bd == 0 {
		bd = int(d.BitDepth)
	}
	if bd == 0 {
		bd = 16
	}
	return intBufferToStereo(buf, bd), buf.Format.SampleRate, nil
}

func decodeMP3(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: open %s: %w", path, err)
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	raw, err := io.ReadAll(d)
	if err != nil {
		return nil, 0, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	// go-mp3 emits 16-bit LE stereo at the file's native rate.
	frames := len(raw) / 4
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		out[i*2] = float32(l) / 32768
		out[i*2+1] = float32(r) / 32768
	}
	return out, d.SampleRate(), nil
}

// intBufferToStereo converts a decoded PCM buffer of any channel count
// into interleaved stereo float32. Mono is duplicated, extra channels
// are dropped.
func intBufferToStereo(buf *audio.IntBuffer, bitDepth int) []float32 {
	ch := buf.Format.NumChannels
	if ch < 1 {
		ch = 1
	}
	scale := 1 / float64(int64(1)<<(bitDepth-1))
	frames := len(buf.Data) / ch
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := float64(buf.Data[i*ch]) * scale
		r := l
		if ch > 1 {
			r = float64(buf.Data[i*ch+1]) * scale
		}
		out[i*2] = float32(l)
		out[i*2+1] = float32(r)
	}
	return out
}

func normalizePeak(samples []float32) {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak == 0 {
		return
	}
	gain := 0.95 / peak
	for i := range samples {
		samples[i] *= gain
	}
}
