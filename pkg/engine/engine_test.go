package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/roomsmith/roomsmith/pkg/errors"
	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/plan"
	"github.com/roomsmith/roomsmith/pkg/resolve"
)

func samplePlan() *plan.UpdatePlan {
	return &plan.UpdatePlan{
		PlanID: "test-plan",
		Create: []resolve.Placement{{
			ID:        "bed_1",
			Type:      "bed",
			Room:      "bedroom",
			Size:      geometry.V3(160, 200, 50),
			Transform: geometry.Transform{Position: geometry.V3(130, 150, 25)},
		}},
		Move: []plan.MoveOp{{
			ID: "lamp_1",
			To: geometry.Transform{Position: geometry.V3(1, 2, 3), Yaw: 90},
		}},
		Remove: []string{"chair_1"},
	}
}

func TestBridgeApplyOrder(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewBridge(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewBridge() error = %v", err)
	}
	if err := b.Apply(context.Background(), samplePlan()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []string{
		"DELETE /objects/chair_1",
		"PUT /objects/lamp_1/transform",
		"POST /objects",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestBridgeAssetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	b, _ := NewBridge(srv.URL, nil)
	err := b.Apply(context.Background(), samplePlan())
	if !errors.Is(err, errors.ErrCodeAssetNotFound) {
		t.Errorf("Apply() error = %v, want code %s", err, errors.ErrCodeAssetNotFound)
	}
}

func TestBridgeEngineFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "editor crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, _ := NewBridge(srv.URL, nil)
	err := b.Apply(context.Background(), samplePlan())
	if !errors.Is(err, errors.ErrCodeEngineFailed) {
		t.Errorf("Apply() error = %v, want code %s", err, errors.ErrCodeEngineFailed)
	}
}

func TestRecordingBinding(t *testing.T) {
	r := NewRecording()
	if err := r.Apply(context.Background(), samplePlan()); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(r.Ops) != 3 {
		t.Fatalf("Ops = %v, want 3 entries", r.Ops)
	}
	if r.Ops[0] != "remove chair_1" {
		t.Errorf("first op = %q, want the removal", r.Ops[0])
	}
}
