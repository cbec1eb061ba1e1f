package experiments

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/genetic"

	"github.com/stretchr/testify/require"
)

func smallConfig(t *testing.T) Config {
	return Config{
		Evolution: genetic.Config{
			PopulationSize:     4,
			CrossoverPct:       50,
			MutationPct:        50,
			NumFeatures:        game.NumFeatures,
			Iterations:         2,
			TrialsPerCandidate: 2,
			Seed:               11,
		},
		Workers:   2,
		Plies:     1,
		MaxPieces: 25,
		OutDir:    t.TempDir(),
	}
}

func TestRunEvolution(t *testing.T) {
	t.Run("runs every generation and writes reports", func(t *testing.T) {
		result, err := RunEvolution(context.Background(), smallConfig(t))

		require.NoError(t, err)
		require.Len(t, result.Best, game.NumFeatures)

		snapshot, err := os.ReadFile(filepath.Join(result.Dir, metrics.SnapshotFile))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(snapshot)), "\n")
		require.Equal(t, "1", lines[0], "Snapshot should hold the last generation")
		require.True(t, strings.HasPrefix(lines[1], "Best value: "))
		require.True(t, strings.HasPrefix(lines[2], "Worst value: "))
		require.Len(t, lines, 3+4, "One weight line per survivor")
		require.Len(t, strings.Fields(lines[3]), game.NumFeatures)
		for _, field := range strings.Fields(lines[3]) {
			_, err := strconv.ParseFloat(field, 64)
			require.NoError(t, err)
		}

		f, err := os.Open(filepath.Join(result.Dir, metrics.HistoryFile))
		require.NoError(t, err)
		defer f.Close()
		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 1+3, "Initial generation plus two iterations")
		require.Equal(t, "0", rows[1][4], "No trial should fail")
		for _, row := range rows[1:] {
			require.Equal(t, "2", row[8], "Every generation should report the pool size")
		}
	})

	t.Run("cancelled runs stop cleanly", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := RunEvolution(ctx, smallConfig(t))

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid settings are rejected", func(t *testing.T) {
		config := smallConfig(t)
		config.Workers = 0
		_, err := RunEvolution(context.Background(), config)
		require.Error(t, err)

		config = smallConfig(t)
		config.Evolution.MutationPct = 200
		_, err = RunEvolution(context.Background(), config)
		require.ErrorIs(t, err, genetic.ErrInvalidConfig)
	})
}

func TestRunThroughputExperiment(t *testing.T) {
	dir := t.TempDir()

	records, err := RunThroughputExperiment(context.Background(), []int{1, 3}, 6, 20, dir)

	require.NoError(t, err)
	require.Len(t, records, 2)
	for i, workers := range []int{1, 3} {
		require.Equal(t, workers, records[i].Workers)
		require.Equal(t, 6, records[i].Trials)
		require.Zero(t, records[i].Failures)
		require.Equal(t, 6*20, records[i].Pieces, "Every trial should use its whole piece budget")
		require.Greater(t, records[i].TrialsPerSecond, 0.0)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*", "throughput.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
}
