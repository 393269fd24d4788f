package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/synthgraph/pkg/backend/native"
	"github.com/justyntemme/synthgraph/pkg/framework/engine"
)

// source writes a constant and records when it ran.
type source struct {
	engine.Node
	name   string
	value  float32
	cost   float64
	active bool
	trace  *[]string
}

func newSource(cfg engine.Config, name string, value float32, trace *[]string) *source {
	s := &source{name: name, value: value, cost: 1, active: true, trace: trace}
	s.InitNode(cfg.BlockSize)
	return s
}

func (s *source) Process(frames int) {
	out := s.Output().Buffer()[:frames]
	for i := range out {
		out[i] = s.value
	}
	if s.trace != nil {
		*s.trace = append(*s.trace, s.name)
	}
}

func (s *source) Cost() float64 { return s.cost }
func (s *source) Active() bool  { return s.active }

// adder writes its input plus one.
type adder struct {
	engine.Node
	name  string
	in    *engine.Input
	trace *[]string
}

func newAdder(cfg engine.Config, name string, trace *[]string) *adder {
	a := &adder{name: name, trace: trace}
	a.InitNode(cfg.BlockSize, "in")
	a.in = a.Input("in")
	return a
}

func (a *adder) Process(frames int) {
	out := a.Output().Buffer()[:frames]
	in := a.in.Read(frames)
	for i := range out {
		v := float32(1)
		if in != nil {
			v += in[i]
		}
		out[i] = v
	}
	if a.trace != nil {
		*a.trace = append(*a.trace, a.name)
	}
}

func (a *adder) Cost() float64 { return 0 }
func (a *adder) Active() bool  { return true }

func testConfig() engine.Config {
	return engine.Config{SampleRate: 44100, BlockSize: 64}
}

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.New(testConfig(), native.NewFactory())
	require.NoError(t, err)
	return e
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, engine.DefaultConfig().Validate())

	tests := []struct {
		name string
		cfg  engine.Config
	}{
		{"zero block", engine.Config{SampleRate: 44100, BlockSize: 0}},
		{"nan rate", engine.Config{SampleRate: math.NaN(), BlockSize: 64}},
		{"low rate", engine.Config{SampleRate: 100, BlockSize: 64}},
		{"negative units", engine.Config{SampleRate: 44100, BlockSize: 64, MaxUnits: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), engine.ErrInvalidConfig)
			_, err := engine.New(tt.cfg, nil)
			assert.ErrorIs(t, err, engine.ErrInvalidConfig)
		})
	}
}

func TestAddUnit(t *testing.T) {
	e := newEngine(t)
	s := newSource(e.Config(), "a", 1, nil)

	require.NoError(t, e.AddUnit(s))
	require.NoError(t, e.AddUnit(s), "registering twice is a no-op")
	assert.Len(t, e.Units(), 1)

	other := newEngine(t)
	assert.ErrorIs(t, other.AddUnit(s), engine.ErrForeignUnit)

	require.NoError(t, e.Start())
	assert.ErrorIs(t, e.AddUnit(newSource(e.Config(), "b", 1, nil)), engine.ErrRunning)
	assert.ErrorIs(t, e.Connect(s.Output(), e.Master()), engine.ErrRunning)
	assert.ErrorIs(t, e.AddRunner(nil), engine.ErrRunning)
}

func TestAddUnitLimits(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUnits = 1
	e, err := engine.New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, e.AddUnit(newSource(cfg, "a", 1, nil)))
	assert.ErrorIs(t, e.AddUnit(newSource(cfg, "b", 1, nil)), engine.ErrTooManyUnits)

	_, err = e.NewOscillator()
	assert.ErrorIs(t, err, engine.ErrNoFactory)

	small := newSource(engine.Config{SampleRate: 44100, BlockSize: 8}, "c", 1, nil)
	e2 := newEngine(t)
	assert.ErrorIs(t, e2.AddUnit(small), engine.ErrInvalidConfig)
}

func TestConnect(t *testing.T) {
	e := newEngine(t)
	a := newSource(e.Config(), "a", 0.25, nil)
	b := newSource(e.Config(), "b", 0.5, nil)
	require.NoError(t, e.AddUnit(a))

	assert.ErrorIs(t, e.Connect(b.Output(), e.Master()), engine.ErrForeignUnit,
		"unregistered output")
	require.NoError(t, e.AddUnit(b))

	require.NoError(t, e.Connect(a.Output(), e.Master()))
	require.NoError(t, e.Connect(a.Output(), e.Master()), "same pair twice is a no-op")
	require.NoError(t, e.Connect(b.Output(), e.Master()))
	assert.ErrorIs(t, e.Connect(nil, e.Master()), engine.ErrForeignUnit)

	require.NoError(t, e.Start())
	out := make([]float32, 64)
	e.Render(out)
	for _, v := range out {
		require.InDelta(t, 0.75, v, 1e-6, "sources sum, and a duplicate connection is not counted twice")
	}
}

func TestExecutionOrder(t *testing.T) {
	e := newEngine(t)
	var trace []string
	cfg := e.Config()

	// Registered downstream first.
	last := newAdder(cfg, "last", &trace)
	mid := newAdder(cfg, "mid", &trace)
	first := newSource(cfg, "first", 1, &trace)
	loose := newSource(cfg, "loose", 0, &trace)
	for _, u := range []engine.Unit{last, mid, first, loose} {
		require.NoError(t, e.AddUnit(u))
	}
	require.NoError(t, e.Connect(first.Output(), mid.in))
	require.NoError(t, e.Connect(mid.Output(), last.in))
	require.NoError(t, e.Connect(last.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, 64)
	e.Render(out)
	assert.Equal(t, []string{"first", "mid", "last", "loose"}, trace)
	assert.InDelta(t, 3.0, out[0], 1e-6)
}

func TestFeedbackCycleReadsPreviousBlock(t *testing.T) {
	e := newEngine(t)
	var trace []string
	cfg := e.Config()

	a := newAdder(cfg, "a", &trace)
	b := newAdder(cfg, "b", &trace)
	require.NoError(t, e.AddUnit(a))
	require.NoError(t, e.AddUnit(b))
	require.NoError(t, e.Connect(a.Output(), b.in))
	require.NoError(t, e.Connect(b.Output(), a.in))
	require.NoError(t, e.Connect(b.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, 64)
	e.Render(out)
	assert.Equal(t, []string{"a", "b"}, trace, "cycle keeps registration order")
	assert.InDelta(t, 2.0, out[0], 1e-6)

	e.Render(out)
	// a reads b from the previous block (2), so a = 3 and b = 4.
	assert.InDelta(t, 4.0, out[0], 1e-6)
}

// splitter writes a value to its output and twice the value to a tap.
type splitter struct {
	engine.Node
	tap   *engine.Tap
	value float32
}

func (s *splitter) Process(frames int) {
	out := s.Output().Buffer()[:frames]
	tap := s.tap.Buffer()[:frames]
	for i := range out {
		out[i] = s.value
		tap[i] = 2 * s.value
	}
}

func (s *splitter) Cost() float64 { return 0 }
func (s *splitter) Active() bool  { return true }

func TestTapOrdersReadersAfterOwner(t *testing.T) {
	e := newEngine(t)
	cfg := e.Config()

	// The reader registers first, so without the tap's ordering input it
	// would run before the owner.
	reader := newAdder(cfg, "reader", nil)
	require.NoError(t, e.AddUnit(reader))

	owner := &splitter{value: 1}
	owner.InitNode(cfg.BlockSize)
	require.NoError(t, e.AddUnit(owner))
	owner.tap = engine.NewTap(cfg, owner)
	require.NoError(t, e.AddUnit(owner.tap))
	require.NoError(t, e.Connect(owner.Output(), owner.tap.After()))
	require.NoError(t, e.Connect(owner.tap.Output(), reader.in))
	require.NoError(t, e.Connect(reader.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, cfg.BlockSize)
	e.Render(out)
	assert.Equal(t, float32(3), out[0])
	assert.True(t, owner.tap.Active())
	assert.Equal(t, 0.0, owner.tap.Cost())
}

func TestRenderStoppedAndChunked(t *testing.T) {
	e := newEngine(t)
	s := newSource(e.Config(), "s", 0.5, nil)
	require.NoError(t, e.AddUnit(s))
	require.NoError(t, e.Connect(s.Output(), e.Master()))

	out := make([]float32, 200)
	for i := range out {
		out[i] = 9
	}
	e.Render(out)
	for _, v := range out {
		require.Zero(t, v, "stopped engine renders silence")
	}

	require.NoError(t, e.Start())
	e.SetMasterGain(0.5)
	e.Render(out)
	for _, v := range out {
		require.InDelta(t, 0.25, v, 1e-6)
	}

	e.Stop()
	assert.False(t, e.Running())
	e.Render(out)
	assert.Zero(t, out[0])
}

func TestSanitizesUnitOutput(t *testing.T) {
	e := newEngine(t)
	bad := newSource(e.Config(), "nan", float32(math.NaN()), nil)
	inf := newSource(e.Config(), "inf", float32(math.Inf(1)), nil)
	require.NoError(t, e.AddUnit(bad))
	require.NoError(t, e.AddUnit(inf))
	require.NoError(t, e.Connect(bad.Output(), e.Master()))
	require.NoError(t, e.Connect(inf.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, 64)
	e.Render(out)
	for _, v := range out {
		require.Zero(t, v)
	}
}

func TestEstimatedLoad(t *testing.T) {
	e := newEngine(t)
	a := newSource(e.Config(), "a", 0, nil)
	a.cost = 30
	b := newSource(e.Config(), "b", 0, nil)
	b.cost = 50
	idle := newSource(e.Config(), "idle", 0, nil)
	idle.cost = 90
	idle.active = false
	for _, u := range []*source{a, b, idle} {
		require.NoError(t, e.AddUnit(u))
	}
	require.NoError(t, e.Start())

	e.Render(make([]float32, 64))
	assert.InDelta(t, 80.0, e.EstimatedLoad(), 1e-9)

	idle.active = true
	e.Render(make([]float32, 64))
	assert.Equal(t, 100.0, e.EstimatedLoad(), "clamped")
	assert.GreaterOrEqual(t, e.MeasuredLoad(), 0.0)
	assert.Equal(t, uint64(2), e.Timer().Blocks())
}

func TestFactoryConstructors(t *testing.T) {
	e := newEngine(t)
	osc, err := e.NewOscillator()
	require.NoError(t, err)
	vca, err := e.NewVCA()
	require.NoError(t, err)
	flt, err := e.NewFilter()
	require.NoError(t, err)
	_, err = e.NewEnvelope()
	require.NoError(t, err)
	_, err = e.NewDelay(0.1)
	require.NoError(t, err)
	peak, err := e.NewPeakFollower(0.1)
	require.NoError(t, err)
	assert.Len(t, e.Units(), 6)

	osc.SetFrequency(1000)
	flt.SetCutoff(0.4)
	require.NoError(t, e.Connect(osc.Output(), flt.In()))
	require.NoError(t, e.Connect(flt.Output(), vca.In()))
	require.NoError(t, e.Connect(vca.Output(), peak.In()))
	require.NoError(t, e.Connect(peak.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, 4096)
	e.Render(out)
	assert.Greater(t, peak.Peak(), 0.5)
}

func TestRenderDoesNotAllocate(t *testing.T) {
	e := newEngine(t)
	osc, err := e.NewOscillator()
	require.NoError(t, err)
	other, err := e.NewOscillator()
	require.NoError(t, err)
	flt, err := e.NewFilter()
	require.NoError(t, err)
	require.NoError(t, e.Connect(osc.Output(), flt.In()))
	require.NoError(t, e.Connect(other.Output(), flt.In()))
	require.NoError(t, e.Connect(flt.Output(), e.Master()))
	require.NoError(t, e.Start())

	out := make([]float32, 256)
	allocs := testing.AllocsPerRun(100, func() {
		e.Render(out)
	})
	assert.Zero(t, allocs)
}

func BenchmarkRender(b *testing.B) {
	e, _ := engine.New(engine.DefaultConfig(), native.NewFactory())
	for i := 0; i < 16; i++ {
		osc, _ := e.NewOscillator()
		flt, _ := e.NewFilter()
		_ = e.Connect(osc.Output(), flt.In())
		_ = e.Connect(flt.Output(), e.Master())
	}
	_ = e.Start()
	out := make([]float32, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Render(out)
	}
}

// lifecycle records the hooks the engine calls on the audio thread.
type lifecycle struct {
	trace []string
}

func (l *lifecycle) Run(frames int) { l.trace = append(l.trace, "run") }
func (l *lifecycle) OnStart()       { l.trace = append(l.trace, "start") }
func (l *lifecycle) OnStop()        { l.trace = append(l.trace, "stop") }

func TestLifecycleHooksRunAtBlockBoundary(t *testing.T) {
	e := newEngine(t)
	l := &lifecycle{}
	require.NoError(t, e.AddRunner(l))
	block := make([]float32, testConfig().BlockSize)

	require.NoError(t, e.Start())
	assert.Empty(t, l.trace, "Start calls nothing on the caller's goroutine")
	e.Render(block)
	assert.Equal(t, []string{"start", "run"}, l.trace)

	e.Stop()
	assert.Equal(t, []string{"start", "run"}, l.trace, "Stop calls nothing on the caller's goroutine")
	e.Render(block)
	e.Render(block)
	assert.Equal(t, []string{"start", "run", "stop"}, l.trace)

	l.trace = nil
	require.NoError(t, e.Start())
	e.Stop()
	require.NoError(t, e.Start())
	e.Render(block)
	assert.Equal(t, []string{"stop", "start", "run"}, l.trace)

	l.trace = nil
	e.Stop()
	e.Stop()
	e.Render(block)
	assert.Equal(t, []string{"stop"}, l.trace, "a second Stop is a no-op")
}
