package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/soundstep/internal/config"
	"github.com/abhisek/soundstep/internal/plan"
	"github.com/abhisek/soundstep/internal/recommend"
)

// run executes the root command with isolated db and config paths.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{config.EnvDB, config.EnvUser, config.EnvTier, config.EnvTZ} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	full := append([]string{
		"--db", filepath.Join(dir, "soundstep.db"),
		"--config", filepath.Join(dir, "missing.toml"),
		"--user", "maya",
		"--format", "json",
	}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.Execute()
	return out.String(), err
}

func pairLines(n, correct int, at time.Time) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		result := "incorrect"
		if i < correct {
			result = "correct"
		}
		fmt.Fprintf(&sb, `{"result":%q,"createdAt":%q,"contentTags":{"activityType":"minimal_pairs","targetPhoneme":"/b/","contrastPhoneme":"/p/"}}`+"\n",
			result, at.Format(time.RFC3339))
	}
	return sb.String()
}

func TestImportRecommendAndPlan(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, pairLines(12, 5, time.Now().Add(-time.Minute)), "import")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Imported 12 trials.")

	out, err = run(t, dir, "", "recommend")
	require.NoError(t, err, out)
	var recs []recommend.Recommendation
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.NotEmpty(t, recs)
	assert.Equal(t, recommend.IDPhonemeWeakest, recs[0].ID)
	assert.Equal(t, "42% over 12 trials", recs[0].Metric)

	out, err = run(t, dir, "", "plan")
	require.NoError(t, err, out)
	var p plan.TodaysPlan
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	require.Len(t, p.Steps, 2)
	assert.Equal(t, 0, p.CurrentStep)
	assert.Equal(t, 12, p.TodayTrials)

	out, err = run(t, dir, "", "plan", "next")
	require.NoError(t, err, out)
	var res plan.AdvanceResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Done)
	assert.Equal(t, p.Steps[1].Path, res.Route)

	out, err = run(t, dir, "", "plan", "next")
	require.NoError(t, err, out)
	res = plan.AdvanceResult{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Done)
	assert.Equal(t, plan.HubPath, res.Route)

	_, err = run(t, dir, "", "plan", "next")
	assert.Error(t, err)
}

func TestImportReportsBadLine(t *testing.T) {
	dir := t.TempDir()
	lines := pairLines(2, 2, time.Now()) + `{"result":"maybe","createdAt":"2026-10-16T10:00:00Z"}` + "\n"

	out, err := run(t, dir, lines, "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), "after 2 trials")
	_ = out
}

func TestPlacementSetAndShow(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "placement", "set", "identification", "--score", "detection=95")
	require.NoError(t, err, out)

	out, err = run(t, dir, "", "placement", "show")
	require.NoError(t, err, out)
	var p plan.Placement
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "identification", string(p.Level))
	assert.Equal(t, 95, p.Scores["detection"])

	_, err = run(t, dir, "", "placement", "set", "expert")
	assert.Error(t, err)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, t.TempDir(), "", "stats", "--format", "xml")
	assert.Error(t, err)
}
