package commands

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/psyrepl/internal/cli/config"
	"github.com/leapstack-labs/psyrepl/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name   string
		checks []HealthCheck
		want   int
	}{
		{name: "no checks", checks: nil, want: 100},
		{name: "all passing", checks: []HealthCheck{{Status: StatusPass}, {Status: StatusPass}}, want: 100},
		{name: "warning", checks: []HealthCheck{{Status: StatusWarn}}, want: 85},
		{name: "error costs double", checks: []HealthCheck{{Status: StatusError}}, want: 70},
		{name: "clamped at zero", checks: []HealthCheck{
			{Status: StatusError}, {Status: StatusError}, {Status: StatusError}, {Status: StatusError},
		}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHealthScore(tt.checks))
		})
	}
}

func TestCheckEvaluator(t *testing.T) {
	tests := []struct {
		name       string
		evaluator  string
		binary     string
		wantStatus string
	}{
		{name: "print needs no binary", evaluator: "print", binary: "no-such-php", wantStatus: StatusPass},
		{name: "auto falls back", evaluator: "auto", binary: "no-such-php", wantStatus: StatusWarn},
		{name: "php requires binary", evaluator: "php", binary: "no-such-php", wantStatus: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Evaluator = tt.evaluator
			cfg.PHP.Binary = tt.binary
			assert.Equal(t, tt.wantStatus, checkEvaluator(cfg).Status)
		})
	}
}

func TestCheckHistory(t *testing.T) {
	dir := t.TempDir()
	file := testutil.WriteFile(t, dir, "file", "")

	tests := []struct {
		name       string
		history    string
		wantStatus string
	}{
		{name: "disabled", history: "", wantStatus: StatusWarn},
		{name: "existing directory", history: dir + "/history", wantStatus: StatusPass},
		{name: "missing directory", history: dir + "/sub/history", wantStatus: StatusPass},
		{name: "parent is a file", history: file + "/history", wantStatus: StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.HistoryFile = tt.history
			assert.Equal(t, tt.wantStatus, checkHistory(cfg).Status)
		})
	}
}

func TestDoctorCommand_Text(t *testing.T) {
	testutil.SetupTestConfig(t, "evaluator: print\njournal:\n  path: journal.db\n")

	res := testutil.ExecuteCommand(t, NewDoctorCommand(), "")
	require.NoError(t, res.Err)
	testutil.AssertNoANSI(t, res.Out)

	assert.Contains(t, res.Out, "psyrepl Health Report")
	assert.Contains(t, res.Out, "Configuration")
	assert.Contains(t, res.Out, "psyrepl.yaml")
	assert.Contains(t, res.Out, "Journal")
	assert.Contains(t, res.Out, "journal.db (schema v1)")
	assert.Contains(t, res.Out, "Health Score: 100/100")
}

func TestDoctorCommand_JSON(t *testing.T) {
	testutil.SetupTestConfig(t, "evaluator: print\nfunctions: [a, b]\n")

	res := testutil.ExecuteCommand(t, NewDoctorCommand(), "", "--format", "json")
	require.NoError(t, res.Err)

	var out DoctorOutput
	require.NoError(t, json.Unmarshal([]byte(res.Out), &out))
	require.Len(t, out.Checks, 5)

	groups := make(map[string]HealthCheck)
	for _, check := range out.Checks {
		groups[check.Group] = check
	}
	assert.Equal(t, StatusWarn, groups["journal"].Status)
	assert.Equal(t, "disabled", groups["journal"].Details)
	assert.Contains(t, groups["symbols"].Details, "2 configured")
	assert.Equal(t, 1, out.IssueCount)
	assert.Equal(t, 85, out.Score)
}
