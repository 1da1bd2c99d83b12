package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h := NewHandler(NewStore(), nil, nil)
	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "healthy" || got["service"] != "fretkeys" {
		t.Errorf("health = %v", got)
	}
}

func TestState(t *testing.T) {
	store := NewStore()
	store.now = func() time.Time { return time.Unix(100, 0).UTC() }

	b, err := fretboard.NewBoard(fretboard.DefaultLayout(), fretboard.StandardTuning(), nil, fretboard.Options{Sustain: true})
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []fretboard.KeyID{"z", "f", "y"} {
		b.KeyDown(k)
	}
	snap := b.Snapshot()
	store.Publish(snap, chord.New(nil).Analyze(snap.Pitches()))

	w := do(t, NewHandler(store, nil, nil), http.MethodGet, "/api/v1/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got State
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Analysis.Chord == nil || got.Analysis.Chord.Name != "C" {
		t.Errorf("chord = %+v, want C", got.Analysis.Chord)
	}
	if len(got.Board.Strings) != 4 || got.Board.Tuning != "Standard" {
		t.Errorf("board = %+v", got.Board)
	}
	if !got.UpdatedAt.Equal(time.Unix(100, 0)) {
		t.Errorf("updatedAt = %v", got.UpdatedAt)
	}
}

func TestRecognize(t *testing.T) {
	h := NewHandler(NewStore(), nil, nil)
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantChord  string
	}{
		{"pitches", `{"pitches":[60,64,67]}`, http.StatusOK, "C"},
		{"notes", `{"notes":["A3","C4","E4"]}`, http.StatusOK, "Am"},
		{"mixed", `{"pitches":[43],"notes":["D"]}`, http.StatusOK, "G5"},
		{"no chord", `{"pitches":[60,61]}`, http.StatusOK, ""},
		{"bad note", `{"notes":["H2"]}`, http.StatusBadRequest, ""},
		{"bad json", `{"pitches":`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/recognize", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var a chord.Analysis
			if err := json.Unmarshal(w.Body.Bytes(), &a); err != nil {
				t.Fatal(err)
			}
			got := ""
			if a.Chord != nil {
				got = a.Chord.Name
			}
			if got != tt.wantChord {
				t.Errorf("chord = %q, want %q", got, tt.wantChord)
			}
		})
	}
}

func TestTunings(t *testing.T) {
	w := do(t, NewHandler(NewStore(), nil, nil), http.MethodGet, "/api/v1/tunings", "")
	var got struct {
		Tunings []fretboard.Preset `json:"tunings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Tunings) != len(fretboard.Presets()) || got.Tunings[0].Name != "Standard" {
		t.Errorf("tunings = %+v", got.Tunings)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", NewHandler(NewStore(), nil, nil), nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
