package analyzer

import "testing"

func TestReconcileDropsShadowedBareName(t *testing.T) {
	names := NewStringSet("A.f", "f", "g")

	got := Reconcile(names)

	if !got.Has("A.f") {
		t.Error("expected qualified name to be kept")
	}
	if got.Has("f") {
		t.Error("expected bare name with qualified counterpart to be dropped")
	}
	if !got.Has("g") {
		t.Error("expected bare name without counterpart to be kept")
	}
}

func TestReconcileMethodOnly(t *testing.T) {
	names := NewStringSet("C.m")

	got := Reconcile(names)

	if len(got) != 1 || !got.Has("C.m") {
		t.Errorf("expected exactly {C.m}, got %v", got.Sorted())
	}
}

func TestReconcileKeepsAllQualifiedForms(t *testing.T) {
	names := NewStringSet("A.run", "B.run", "run", "main")

	got := Reconcile(names)

	if !got.Has("A.run") || !got.Has("B.run") {
		t.Errorf("expected both qualified forms kept, got %v", got.Sorted())
	}
	if got.Has("run") {
		t.Error("expected shadowed bare name dropped")
	}
	if !got.Has("main") {
		t.Error("expected untouched bare name kept")
	}
}

func TestReconcileEmptySet(t *testing.T) {
	got := Reconcile(NewStringSet())
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got.Sorted())
	}
}

func TestReconcileIsPure(t *testing.T) {
	names := NewStringSet("A.f", "f")
	_ = Reconcile(names)

	if !names.Has("f") || !names.Has("A.f") {
		t.Error("expected the input set to be untouched")
	}
}
