package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/powerspec/internal/ctxlog"
	"github.com/vk/powerspec/internal/executable"
	"github.com/vk/powerspec/internal/model"
	"github.com/vk/powerspec/internal/pipeerr"
	"github.com/vk/powerspec/internal/testutil"
)

type fixture struct {
	dir    string
	out    string
	mock   string
	cfg    Config
	runner *testutil.FakeRunner
}

func newFixture(t *testing.T, catalog string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		dir:    dir,
		out:    filepath.Join(dir, "out"),
		mock:   testutil.WriteFile(t, dir, "catalogs/cat.dat", catalog),
		runner: &testutil.FakeRunner{},
	}
	f.cfg = Config{
		OutputDir:       f.out,
		TransformSource: testutil.WriteSource(t, dir, "fortran/zmapFFTil4_aniso_gen.f"),
		SpectrumSource:  testutil.WriteSource(t, dir, "fortran/power3s_aniso.f"),
		Toolchain:       executable.DefaultToolchain(),
	}
	return f
}

func (f *fixture) params(t *testing.T, space model.Space, axis model.Axis) model.Parameters {
	t.Helper()
	p, err := model.NewParameters(model.Parameters{
		MockFile:     f.mock,
		Space:        space,
		Axis:         axis,
		BoxSize:      2500,
		GridSize:     960,
		BinCount:     480,
		Redshift:     0.562,
		OmegaMatter:  0.31,
		SpectrumKind: model.SpectrumPlk,
	})
	require.NoError(t, err)
	return p
}

func testContext(t *testing.T) (context.Context, *testutil.SafeBuffer) {
	logger, buf := testutil.NewLogger(t)
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func TestRun_RealSpaceEndToEnd(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	ctx, logs := testContext(t)

	var transitions []Transition
	o := New(f.cfg, f.runner,
		WithObserver(func(tr Transition) { transitions = append(transitions, tr) }),
		WithRunID(func() string { return "run-1" }),
	)

	res, err := o.Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.NoError(t, err)

	fft := filepath.Join(f.out, "FFT960real_cat.dat")
	pk := filepath.Join(f.out, "Plk960real_cat.dat")
	assert.Equal(t, fft, res.TransformOutput)
	assert.Equal(t, pk, res.SpectrumOutput)
	assert.Equal(t, "run-1", res.RunID)
	assert.Equal(t, Done, res.Final())
	assert.DirExists(t, f.out)

	wantHistory := []State{Validating, BuildingTransform, RunningTransform, BuildingSpectrum, RunningSpectrum, Done}
	if diff := cmp.Diff(wantHistory, res.History); diff != "" {
		t.Fatalf("state history mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, transitions, len(wantHistory))
	assert.Equal(t, Transition{From: RunningSpectrum, To: Done}, transitions[len(transitions)-1])

	runs := f.runner.RunCalls()
	require.Len(t, runs, 2)
	assert.Equal(t, executable.BinaryPathFor(f.cfg.TransformSource), runs[0].Name)
	assert.Equal(t, []string{"0", "2500", f.mock, fft, "0", "0.562", "0.31", "960"}, runs[0].Args)
	assert.Equal(t, executable.BinaryPathFor(f.cfg.SpectrumSource), runs[1].Name)
	assert.Equal(t, []string{fft, pk, "480", "0"}, runs[1].Args)

	assert.Len(t, f.runner.CompileCalls(), 2)
	assert.True(t, res.Rebuilt[executable.Transform])
	assert.True(t, res.Rebuilt[executable.Spectrum])
	assert.Contains(t, logs.String(), "run_id=run-1")
}

func TestRun_RedshiftSpaceEndToEnd(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceRedshift, model.AxisX))
	require.NoError(t, err)

	assert.Contains(t, res.TransformOutput, "xOmegaM0.31")
	assert.Contains(t, res.SpectrumOutput, "xOmegaM0.31")
	assert.Equal(t, filepath.Join(f.out, "FFT960xOmegaM0.31_cat.dat"), res.TransformOutput)
	assert.Equal(t, filepath.Join(f.out, "Plk960xOmegaM0.31_cat.dat"), res.SpectrumOutput)

	runs := f.runner.RunCalls()
	require.Len(t, runs, 2)
	assert.Equal(t, "1", runs[0].Args[4], "transform observer axis code")
	assert.Equal(t, "1", runs[1].Args[3], "spectrum observer axis code")
	assert.Equal(t, res.TransformOutput, runs[1].Args[0], "spectrum consumes the transform output")
}

func TestRun_SecondRunSkipsCompile(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	ctx, _ := testContext(t)
	o := New(f.cfg, f.runner)
	p := f.params(t, model.SpaceReal, model.AxisNone)

	_, err := o.Run(ctx, p)
	require.NoError(t, err)
	res, err := o.Run(ctx, p)
	require.NoError(t, err)

	assert.Len(t, f.runner.CompileCalls(), 2, "only the first run compiles")
	assert.False(t, res.Rebuilt[executable.Transform])
	assert.False(t, res.Rebuilt[executable.Spectrum])
	assert.Len(t, f.runner.RunCalls(), 4)
}

func TestRun_ValidationFailureSpawnsNothing(t *testing.T) {
	f := newFixture(t, testutil.FiveColumnRow)
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceRedshift, model.AxisX))
	require.ErrorIs(t, err, pipeerr.ErrInsufficientData)
	assert.Equal(t, []State{Validating, Aborted}, res.History)
	assert.Empty(t, f.runner.Calls())
}

func TestRun_MissingCatalog(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	ctx, _ := testContext(t)
	p := f.params(t, model.SpaceReal, model.AxisNone)
	p.MockFile = filepath.Join(f.dir, "nope.dat")

	_, err := New(f.cfg, f.runner).Run(ctx, p)
	require.ErrorIs(t, err, pipeerr.ErrFileNotFound)
	assert.Empty(t, f.runner.Calls())
}

func TestRun_TransformBuildFailureStopsPipeline(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	f.runner.ExitCodes = map[string]int{"ifort": 2}
	ctx, _ := testContext(t)

	var aborted Transition
	o := New(f.cfg, f.runner, WithObserver(func(tr Transition) {
		if tr.To == Aborted {
			aborted = tr
		}
	}))
	res, err := o.Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.ErrorIs(t, err, pipeerr.ErrBuildFailed)

	var pe *pipeerr.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "transform", pe.Executable)
	assert.Equal(t, 2, pe.ExitCode)

	assert.Equal(t, []State{Validating, BuildingTransform, Aborted}, res.History)
	assert.Equal(t, BuildingTransform, aborted.From)
	assert.Same(t, err, aborted.Err)
	assert.Empty(t, f.runner.RunCalls(), "no executable may run after a failed compile")
}

func TestRun_TransformRunFailureSkipsSpectrum(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	f.runner.ExitCodes = map[string]int{executable.BinaryPathFor(f.cfg.TransformSource): 139}
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.ErrorIs(t, err, pipeerr.ErrRunFailed)
	assert.Equal(t, []State{Validating, BuildingTransform, RunningTransform, Aborted}, res.History)
	assert.Len(t, f.runner.CompileCalls(), 1, "spectrum is never built")
	assert.Len(t, f.runner.RunCalls(), 1)
}

func TestRun_SpectrumRunFailureLeavesTransformOutput(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	spectrumBin := executable.BinaryPathFor(f.cfg.SpectrumSource)
	f.runner.OnRun = func(name string, args []string) (int, error) {
		if name == spectrumBin {
			return 1, assert.AnError
		}
		testutil.WriteFile(t, filepath.Dir(args[3]), filepath.Base(args[3]), "fft")
		return 0, nil
	}
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.ErrorIs(t, err, pipeerr.ErrRunFailed)
	assert.Equal(t, Aborted, res.Final())
	assert.FileExists(t, res.TransformOutput, "partial artifacts are not cleaned up")
}

func TestRun_MissingSourceIsFileNotFound(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	f.cfg.SpectrumSource = filepath.Join(f.dir, "fortran", "missing.f")
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.ErrorIs(t, err, pipeerr.ErrFileNotFound)
	assert.Contains(t, err.Error(), "missing.f")
	assert.Equal(t, []State{Validating, Aborted}, res.History)
	assert.Empty(t, f.runner.Calls(), "no process may be spawned when a source is missing")
}

func TestRun_MissingTransformSourceSpawnsNothing(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	f.cfg.TransformSource = filepath.Join(f.dir, "fortran", "gone.f")
	ctx, _ := testContext(t)

	res, err := New(f.cfg, f.runner).Run(ctx, f.params(t, model.SpaceReal, model.AxisNone))
	require.ErrorIs(t, err, pipeerr.ErrFileNotFound)
	assert.Equal(t, Aborted, res.Final())
	assert.Empty(t, f.runner.Calls())
	assert.NoDirExists(t, f.out)
}

func TestPlan_DoesNotSpawn(t *testing.T) {
	f := newFixture(t, testutil.SixColumnRow)
	ctx, _ := testContext(t)
	o := New(f.cfg, f.runner)

	plans, err := o.Plan(ctx, f.params(t, model.SpaceRedshift, model.AxisZ))
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Empty(t, f.runner.Calls())

	fft := filepath.Join(f.out, "FFT960zOmegaM0.31_cat.dat")
	pk := filepath.Join(f.out, "Plk960zOmegaM0.31_cat.dat")

	assert.Equal(t, executable.Transform, plans[0].Kind)
	assert.True(t, plans[0].Stale)
	assert.Equal(t, fft, plans[0].Output)
	assert.Equal(t, []string{plans[0].Binary, "0", "2500", f.mock, fft, "3", "0.562", "0.31", "960"}, plans[0].Command)
	assert.Equal(t, "ifort", plans[0].Compile[0])

	assert.Equal(t, executable.Spectrum, plans[1].Kind)
	assert.Equal(t, []string{plans[1].Binary, fft, pk, "480", "3"}, plans[1].Command)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "RunningSpectrum", RunningSpectrum.String())
	assert.True(t, Aborted.Terminal())
	assert.True(t, Done.Terminal())
	assert.False(t, Validating.Terminal())
}
