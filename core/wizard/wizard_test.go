package wizard

import (
	"testing"

	"blind-configurator/core/measure"
	"blind-configurator/core/types"
)

func completeConfiguration() types.Configuration {
	cfg := types.NewConfiguration()
	cfg.FrameColor = "white"
	cfg.FabricType = "lereve-blockout"
	cfg.FabricColor = "lereve-stone"
	cfg.MountType = "outside"
	cfg.Width = 1000
	cfg.Height = 1000
	cfg.WindowName = "Bedroom"
	return cfg
}

func TestMeasurementStep(t *testing.T) {
	cases := []struct {
		width, height int
		want          bool
	}{
		{0, 0, false},
		{0, 1000, false},
		{1000, 0, false},
		{4000, 1000, false},
		{1000, 4000, false},
		{1000, 1000, true},
		{530, 300, true},
		{3000, 3900, true},
		{529, 1000, false},
	}
	for _, c := range cases {
		cfg := types.Configuration{Width: c.width, Height: c.height}
		if got := IsStepValid(cfg, StepMeasurements); got != c.want {
			t.Errorf("measurements %dx%d valid = %v, want %v", c.width, c.height, got, c.want)
		}
	}
}

func TestStepPredicates(t *testing.T) {
	empty := types.Configuration{}
	full := completeConfiguration()

	expectations := map[StepID][2]bool{
		// step: {empty configuration, complete configuration}
		StepColour:       {false, true},
		StepMount:        {false, true},
		StepMeasurements: {false, true},
		StepControl:      {false, true},
		StepRemote:       {true, true},
		StepAccessories:  {true, true},
		StepName:         {false, true},
	}
	for step, want := range expectations {
		if got := IsStepValid(empty, step); got != want[0] {
			t.Errorf("%s on empty configuration = %v, want %v", step, got, want[0])
		}
		if got := IsStepValid(full, step); got != want[1] {
			t.Errorf("%s on complete configuration = %v, want %v", step, got, want[1])
		}
	}

	if IsStepValid(full, StepID("payment")) {
		t.Error("unknown steps must be invalid")
	}
}

func TestColourStepNeedsAllThree(t *testing.T) {
	cfg := completeConfiguration()
	cfg.FabricColor = ""
	if IsStepValid(cfg, StepColour) {
		t.Error("colour step valid without fabric colour")
	}
}

func TestNameStepIgnoresWhitespace(t *testing.T) {
	cfg := completeConfiguration()
	cfg.WindowName = "   "
	if IsStepValid(cfg, StepName) {
		t.Error("whitespace-only window name should not be valid")
	}
}

func TestDefaultControlTypeSatisfiesControlStep(t *testing.T) {
	if !IsStepValid(types.NewConfiguration(), StepControl) {
		t.Error("motorised default should satisfy the control step")
	}
}

func TestVisibleStepsAreUnconditional(t *testing.T) {
	want := []StepID{StepColour, StepMount, StepMeasurements, StepControl, StepRemote, StepAccessories, StepName}

	manual := completeConfiguration()
	manual.ControlType = types.ControlManual

	for _, cfg := range []types.Configuration{{}, completeConfiguration(), manual} {
		got := VisibleSteps(cfg)
		if len(got) != len(want) {
			t.Fatalf("visible steps = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("step %d = %s, want %s", i, got[i], want[i])
			}
		}
	}
}

func TestWizardGatesNext(t *testing.T) {
	w := New(nil)
	cfg := types.NewConfiguration()

	if w.Current() != StepColour {
		t.Fatalf("initial step = %s", w.Current())
	}
	if w.Previous(cfg) {
		t.Error("previous on first step must be a no-op")
	}
	if w.Next(cfg) {
		t.Error("next with an invalid colour step must be a no-op")
	}
	if w.Current() != StepColour {
		t.Errorf("failed next moved the wizard to %s", w.Current())
	}

	cfg.FrameColor, cfg.FabricType, cfg.FabricColor = "black", "duo-blockout", "duo-aztec"
	if !w.Next(cfg) || w.Current() != StepMount {
		t.Fatalf("expected to advance to mount, at %s", w.Current())
	}
	if !w.Previous(cfg) || w.Current() != StepColour {
		t.Fatalf("expected to go back to colour, at %s", w.Current())
	}
}

func TestWizardWalksToSubmit(t *testing.T) {
	w := New(NewValidator(measure.DefaultLimits()))
	cfg := completeConfiguration()

	steps := 0
	for w.Action(cfg) == ActionNext {
		if !w.Next(cfg) {
			t.Fatalf("stuck at %s", w.Current())
		}
		steps++
	}
	if steps != 6 {
		t.Errorf("took %d steps, want 6", steps)
	}
	if w.Current() != StepName {
		t.Errorf("last step = %s, want name", w.Current())
	}
	if pos, total := w.Progress(cfg); pos != 7 || total != 7 {
		t.Errorf("progress = %d/%d", pos, total)
	}
	if w.Next(cfg) {
		t.Error("next on the last step must be a no-op")
	}
	if !w.ReadyToSubmit(cfg) {
		t.Error("complete configuration on the last step should be ready to submit")
	}

	cfg.WindowName = ""
	if w.ReadyToSubmit(cfg) || w.CanProceed(cfg) {
		t.Error("missing window name must block submission")
	}
}

func TestPreviousIsNeverGated(t *testing.T) {
	w := New(nil)
	cfg := completeConfiguration()
	for w.Next(cfg) {
	}

	// Invalidate everything; going back must still work
	empty := types.Configuration{}
	moves := 0
	for w.Previous(empty) {
		moves++
	}
	if moves != 6 || !w.IsFirst(empty) {
		t.Errorf("went back %d steps, now at %s", moves, w.Current())
	}
}

func TestCustomLimits(t *testing.T) {
	v := NewValidator(measure.Limits{
		Width:  measure.Bounds{Min: 100, Max: 500},
		Height: measure.Bounds{Min: 100, Max: 500},
	})
	if !v.IsStepValid(types.Configuration{Width: 200, Height: 200}, StepMeasurements) {
		t.Error("200x200 should be valid under custom limits")
	}
	if v.IsStepValid(types.Configuration{Width: 1000, Height: 1000}, StepMeasurements) {
		t.Error("1000x1000 should be invalid under custom limits")
	}
	if got := v.InvalidSteps(types.NewConfiguration()); len(got) != 4 {
		t.Errorf("invalid steps on fresh configuration = %v", got)
	}
}
