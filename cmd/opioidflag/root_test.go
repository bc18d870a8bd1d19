package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gyeh/opioidstats/internal/config"
	"github.com/gyeh/opioidstats/internal/exitcode"
	"github.com/gyeh/opioidstats/internal/pipeline"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		cfg = config.Default()
		for _, name := range []string{"config", "log-format", "z_score_cutoff", "raw_count_cutoff"} {
			if f := rootCmd.PersistentFlags().Lookup(name); f != nil {
				f.Changed = false
			}
		}
	})
}

func TestRootFlags_Defaults(t *testing.T) {
	resetFlags(t)
	if err := rootCmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.ZScoreCutoff != 3 {
		t.Errorf("z_score_cutoff: got %d, want 3", cfg.ZScoreCutoff)
	}
	if cfg.RawCountCutoff != 50 {
		t.Errorf("raw_count_cutoff: got %d, want 50", cfg.RawCountCutoff)
	}

	for name, want := range map[string]string{"z_score_cutoff": "3", "raw_count_cutoff": "50"} {
		f := rootCmd.PersistentFlags().Lookup(name)
		if f == nil {
			t.Fatalf("flag --%s not registered", name)
		}
		if f.DefValue != want || f.Value.Type() != "int" {
			t.Errorf("--%s: default %q type %s, want %q int", name, f.DefValue, f.Value.Type(), want)
		}
	}
}

func TestRootFlags_Override(t *testing.T) {
	resetFlags(t)
	if err := rootCmd.ParseFlags([]string{"--z_score_cutoff=5", "--raw_count_cutoff", "20"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if cfg.ZScoreCutoff != 5 || cfg.RawCountCutoff != 20 {
		t.Errorf("got cutoffs (%d, %d), want (5, 20)", cfg.ZScoreCutoff, cfg.RawCountCutoff)
	}
}

func TestRootFlags_RejectsNonInteger(t *testing.T) {
	resetFlags(t)
	if err := rootCmd.ParseFlags([]string{"--z_score_cutoff=2.5"}); err == nil {
		t.Fatal("expected error for non-integer cutoff")
	}
}

func TestExitCode(t *testing.T) {
	cause := errors.New("boom")
	cases := map[string]struct {
		err  error
		want int
	}{
		"load":      {err: &pipeline.PipelineError{Phase: pipeline.PhaseLoad, Err: cause}, want: exitcode.InputError},
		"aggregate": {err: &pipeline.PipelineError{Phase: pipeline.PhaseAggregate, Err: cause}, want: exitcode.AnalysisError},
		"write":     {err: &pipeline.PipelineError{Phase: pipeline.PhaseWrite, Err: cause}, want: exitcode.OutputError},
		"wrapped":   {err: fmt.Errorf("run: %w", &pipeline.PipelineError{Phase: pipeline.PhaseWrite, Err: cause}), want: exitcode.OutputError},
		"untyped":   {err: cause, want: exitcode.AnalysisError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode: got %d, want %d", got, tc.want)
			}
		})
	}
}
