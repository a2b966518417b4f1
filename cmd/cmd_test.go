package cmd

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/model"
	"github.com/pable/go-statcast-diagnosis/internal/storage"
)

func TestSplitName(t *testing.T) {
	first, last, err := splitName([]string{"Aaron", "Judge"})
	require.NoError(t, err)
	assert.Equal(t, "Aaron", first)
	assert.Equal(t, "Judge", last)

	first, last, err = splitName([]string{"Vladimir Guerrero", "Jr."})
	require.NoError(t, err)
	assert.Equal(t, "Vladimir", first)
	assert.Equal(t, "Guerrero Jr.", last)

	_, _, err = splitName([]string{"Ohtani"})
	assert.Error(t, err)
}

func TestPlayerArg(t *testing.T) {
	diagSeason = "2024"
	defer func() { diagSeason = "" }()

	req, err := playerArg("660271")
	require.NoError(t, err)
	assert.Equal(t, int64(660271), req.PlayerID)
	assert.Equal(t, "2024", req.Season)

	req, err = playerArg("Juan Soto")
	require.NoError(t, err)
	assert.Zero(t, req.PlayerID)
	assert.Equal(t, "Juan", req.FirstName)
	assert.Equal(t, "Soto", req.LastName)

	_, err = playerArg("Soto")
	assert.Error(t, err)
}

func TestFetchRequests(t *testing.T) {
	fetchSeasons = []string{"2024", "2023"}
	defer func() { fetchSeasons, diagSeason = nil, "" }()

	reqs, err := fetchRequests([]string{"592450", "Juan Soto"})
	require.NoError(t, err)
	require.Len(t, reqs, 4)
	assert.Equal(t, int64(592450), reqs[1].PlayerID)
	assert.Equal(t, "2023", reqs[1].Season)
	assert.Equal(t, "Soto", reqs[2].LastName)
	assert.Equal(t, "2024", reqs[2].Season)
}

func TestResolveRoster(t *testing.T) {
	defer func() { exportPlayers, exportRoster = "", "" }()

	exportPlayers = "592450, 665742,,"
	ids, err := resolveRoster()
	require.NoError(t, err)
	assert.Equal(t, []int64{592450, 665742}, ids)

	exportPlayers = "592450,abc"
	_, err = resolveRoster()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"NYY","players":[592450,683011]}`), 0644))
	exportPlayers, exportRoster = "", path
	ids, err = resolveRoster()
	require.NoError(t, err)
	assert.Equal(t, []int64{592450, 683011}, ids)
}

func exportRows() []storage.DiagnosisRow {
	return []storage.DiagnosisRow{{
		ID:               "0f6c1d2e-aaaa-bbbb-cccc-000000000001",
		PlayerID:         592450,
		PlayerName:       "Aaron Judge",
		Season:           "2024",
		StartDate:        "2024-03-28",
		EndDate:          "2024-09-29",
		TotalGames:       30,
		TrendLaunchSpeed: "increasing",
		TrendHardHitRate: "stable",
		TrendKRate:       "decreasing",
		CreatedAt:        "2024-10-01T12:00:00Z",
	}}
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExportCSV(&buf, exportRows()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, exportColumns, recs[0])
	assert.Equal(t, "592450", recs[1][1])
	assert.Equal(t, "30", recs[1][6])
	assert.Equal(t, "decreasing", recs[1][9])
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExportJSON(&buf, exportRows()))

	var out []exportRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Aaron Judge", out[0].PlayerName)
	assert.Equal(t, "increasing", out[0].Trends["avg_launch_speed"])
	assert.Equal(t, "stable", out[0].Trends["hard_hit_rate"])
}

func TestDateSpan(t *testing.T) {
	day := func(s string) time.Time {
		d, _ := time.Parse(model.DateLayout, s)
		return d
	}
	events := []model.EventRecord{
		{GameDate: day("2024-05-02")},
		{GameDate: day("2024-04-01")},
		{GameDate: day("2024-06-30")},
	}
	first, last := dateSpan(events)
	assert.Equal(t, "2024-04-01", first)
	assert.Equal(t, "2024-06-30", last)

	first, last = dateSpan(nil)
	assert.Equal(t, "—", first)
	assert.Equal(t, "—", last)
}

func TestKeyedEvents(t *testing.T) {
	events := []model.EventRecord{
		{GamePK: 745001, Batter: 592450, AtBatNumber: 1, PitchNumber: 1},
		{Batter: 592450, AtBatNumber: 1, PitchNumber: 2},
		{GamePK: 745001, AtBatNumber: 2, PitchNumber: 1},
		{GamePK: 745001, Batter: 665742, AtBatNumber: 2, PitchNumber: 1},
	}
	kept, dropped := keyedEvents(events)
	assert.Equal(t, 2, dropped)
	require.Len(t, kept, 2)
	assert.Equal(t, int64(592450), kept[0].Batter)
	assert.Equal(t, int64(665742), kept[1].Batter)
	assert.Equal(t, int64(0), events[1].GamePK, "input is left untouched")

	kept, dropped = keyedEvents([]model.EventRecord{{PlayerName: "Cole, Gerrit"}})
	assert.Empty(t, kept)
	assert.Equal(t, 1, dropped)
}

func TestApplyLLMFlags(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	t.Setenv("OPENAI_API_KEY", "sk-openai")

	cfg = config.New()
	cfg.LLM.Model = "claude-haiku-4-5"
	cfg.LLM.APIKey = "sk-ant"
	applyLLMFlags(config.ProviderOpenAI, "", "")
	assert.Equal(t, config.ProviderOpenAI, cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model, "a Claude model must not follow the switch to openai")
	assert.Equal(t, "sk-openai", cfg.LLM.APIKey)

	cfg = config.New()
	applyLLMFlags(config.ProviderOpenAI, "gpt-4.1", "sk-flag")
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, "sk-flag", cfg.LLM.APIKey)

	cfg = config.New()
	cfg.LLM.Model = "claude-haiku-4-5"
	applyLLMFlags(config.ProviderAnthropic, "", "")
	assert.Equal(t, "claude-haiku-4-5", cfg.LLM.Model, "same provider keeps the configured model")
}
