package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/soundstep/internal/erber"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/trial"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if seq <= last {
			t.Fatalf("sequence went from %d to %d", last, seq)
		}
		last = seq
	}
}

func TestTrialAppendAndFetch(t *testing.T) {
	s := openTestStore(t)
	repo := s.Trials()
	ctx := context.Background()

	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	in := []trial.Event{
		{
			UserID:          "u1",
			Result:          trial.ResultIncorrect,
			UserResponse:    trial.String("pat"),
			CorrectResponse: trial.String("bat"),
			ResponseTimeMs:  trial.Int(1200),
			Tags: trial.Tags{
				ActivityType:    erber.ActivityMinimalPairs,
				TargetPhoneme:   "/b/",
				ContrastPhoneme: "/p/",
				Position:        trial.PositionInitial,
				SNR:             trial.Int(5),
				NoiseEnabled:    trial.Bool(true),
			},
			CreatedAt: base.Add(48 * time.Hour),
		},
		{UserID: "u1", Result: trial.ResultCorrect, CreatedAt: base},
		{UserID: "u2", Result: trial.ResultSkipped, CreatedAt: base},
	}
	for i := range in {
		if err := repo.Append(ctx, &in[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if in[i].ID == "" {
			t.Fatalf("append %d: no id assigned", i)
		}
	}

	all, err := repo.FetchTrials(ctx, "u1", time.Time{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d trials, want 2", len(all))
	}
	if !all[0].CreatedAt.Equal(base) {
		t.Errorf("trials not ascending: first at %v", all[0].CreatedAt)
	}

	got := all[1]
	if got.ID != in[0].ID || got.Result != trial.ResultIncorrect {
		t.Errorf("round trip = %+v", got)
	}
	if got.UserResponse == nil || *got.UserResponse != "pat" || got.CorrectResponse == nil || *got.CorrectResponse != "bat" {
		t.Errorf("responses = %v / %v", got.UserResponse, got.CorrectResponse)
	}
	if got.ResponseTimeMs == nil || *got.ResponseTimeMs != 1200 {
		t.Errorf("response time = %v", got.ResponseTimeMs)
	}
	if got.Tags.TargetPhoneme != "/b/" || got.Tags.Position != trial.PositionInitial {
		t.Errorf("tags = %+v", got.Tags)
	}
	if got.Tags.SNR == nil || *got.Tags.SNR != 5 || got.Tags.NoiseEnabled == nil || !*got.Tags.NoiseEnabled {
		t.Errorf("numeric tags = %+v", got.Tags)
	}
	if all[0].UserResponse != nil || all[0].ResponseTimeMs != nil {
		t.Errorf("absent fields came back set: %+v", all[0])
	}

	recent, err := repo.FetchTrials(ctx, "u1", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("fetch since: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != in[0].ID {
		t.Errorf("windowed fetch returned %d trials", len(recent))
	}

	n, err := repo.Count(ctx, "u2")
	if err != nil || n != 1 {
		t.Errorf("count u2 = %d, %v", n, err)
	}
}

func TestTrialAppendRequiresUser(t *testing.T) {
	s := openTestStore(t)
	if err := s.Trials().Append(context.Background(), &trial.Event{Result: trial.ResultCorrect}); err == nil {
		t.Fatal("expected error for trial without user")
	}
}

func TestTrialQueryOpts(t *testing.T) {
	s := openTestStore(t)
	repo := s.Trials()
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := trial.Event{UserID: "u1", Result: trial.ResultCorrect, CreatedAt: base.AddDate(0, 0, i)}
		if err := repo.Append(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.Query(ctx, "u1", QueryOpts{From: base.AddDate(0, 0, 1), To: base.AddDate(0, 0, 4), Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || !got[0].CreatedAt.Equal(base.AddDate(0, 0, 1)) {
		t.Errorf("query returned %d trials starting %v", len(got), got)
	}
}

func TestKVRepo(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("get empty: ok=%v err=%v", ok, err)
	}
	if err := kv.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || string(v) != "two" {
		t.Fatalf("get = %q ok=%v err=%v", v, ok, err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatal("slot survived delete")
	}
}

func TestKVRepoBacksPlanTracker(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	tr := &plan.Tracker{Cache: s.KV(), Location: time.UTC, Now: func() time.Time { return now }}

	steps := []plan.Step{{ActivityID: erber.ActivitySoundDetection}, {ActivityID: erber.ActivityMinimalPairs}}
	if _, err := tr.Save(ctx, "u1", steps); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	p, ok, err := tr.Load(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("load plan: ok=%v err=%v", ok, err)
	}
	if len(p.Steps) != 2 || p.Steps[1].ActivityID != erber.ActivityMinimalPairs {
		t.Errorf("steps = %+v", p.Steps)
	}

	now = now.AddDate(0, 0, 1)
	if _, ok, _ := tr.Load(ctx, "u1"); ok {
		t.Error("yesterday's plan was returned")
	}
}

func TestPlacementRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.Placements()
	ctx := context.Background()

	if _, err := repo.Latest(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("latest (empty) err = %v, want ErrNotFound", err)
	}
	if p, err := repo.LatestPlacement(ctx, "u1"); p != nil || err != nil {
		t.Fatalf("LatestPlacement (empty) = %v, %v", p, err)
	}

	if err := repo.Save(ctx, "u1", plan.Placement{Level: erber.LevelDiscrimination}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "u1", plan.Placement{Level: erber.LevelIdentification, Scores: map[string]int{"words": 80}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Save(ctx, "u1", plan.Placement{Level: "expert"}); err == nil {
		t.Fatal("expected error for unknown level")
	}

	p, err := repo.LatestPlacement(ctx, "u1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if p.Level != erber.LevelIdentification || p.Scores["words"] != 80 || p.CreatedAt.IsZero() {
		t.Errorf("latest = %+v", p)
	}
}

func TestDecodeTrial(t *testing.T) {
	e, err := DecodeTrial([]byte(`{"userId":"u1","result":"incorrect","userResponse":"pat","correctResponse":"bat",` +
		`"contentTags":{"activityType":"minimal_pairs","snr":"4.6","noiseEnabled":"true","voiceGender":"robot"},` +
		`"responseTimeMs":0,"createdAt":"2026-10-16T08:30:00+02:00"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if e.Tags.SNR == nil || *e.Tags.SNR != 5 {
		t.Errorf("snr = %v", e.Tags.SNR)
	}
	if e.Tags.VoiceGender != "" {
		t.Errorf("invalid voice kept: %q", e.Tags.VoiceGender)
	}
	if e.ResponseTimeMs != nil {
		t.Errorf("zero response time should be absent")
	}
	if !e.CreatedAt.Equal(time.Date(2026, 10, 16, 6, 30, 0, 0, time.UTC)) {
		t.Errorf("createdAt = %v", e.CreatedAt)
	}

	bad := []string{
		`not json`,
		`{"result":"correct"}`,
		`{"result":"maybe","createdAt":"2026-10-16T08:30:00Z"}`,
		`{"result":"correct","createdAt":"yesterday"}`,
		`{"result":"correct","createdAt":"2026-10-16T08:30:00Z","responseTimeMs":-3}`,
	}
	for _, line := range bad {
		if _, err := DecodeTrial([]byte(line)); err == nil {
			t.Errorf("DecodeTrial(%s) succeeded", line)
		}
	}
}

func TestImport(t *testing.T) {
	s := openTestStore(t)
	repo := s.Trials()
	ctx := context.Background()

	src := strings.NewReader(`{"result":"correct","createdAt":"2026-10-16T08:00:00Z"}

{"userId":"u2","result":"skipped","createdAt":"2026-10-16T08:01:00Z"}
{"result":"bogus","createdAt":"2026-10-16T08:02:00Z"}
{"result":"correct","createdAt":"2026-10-16T08:03:00Z"}
`)
	n, err := repo.Import(ctx, src, "u1")
	if err == nil || !strings.Contains(err.Error(), "line 4") {
		t.Fatalf("import err = %v, want failure on line 4", err)
	}
	if n != 2 {
		t.Errorf("imported %d, want 2", n)
	}

	u1, _ := repo.FetchTrials(ctx, "u1", time.Time{})
	u2, _ := repo.FetchTrials(ctx, "u2", time.Time{})
	if len(u1) != 1 || len(u2) != 1 {
		t.Errorf("u1=%d u2=%d trials", len(u1), len(u2))
	}
}
