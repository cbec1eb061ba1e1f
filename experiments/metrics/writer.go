package metrics

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// GenerationRecord is what gets reported once a generation has been selected.
type GenerationRecord struct {
	Generation int
	Best       float64
	Worst      float64
	Weights    [][]float64 // Surviving candidates, best first
	EvaluationMetric
}

// BestWeights returns the weights of the best surviving candidate.
func (r GenerationRecord) BestWeights() []float64 {
	if len(r.Weights) == 0 {
		return nil
	}
	return r.Weights[0]
}

// Writer persists generation records under a timestamped directory: a snapshot of
// the latest population that is overwritten every generation, and a CSV history.
type Writer struct {
	baseDir string
}

const (
	SnapshotFile = "output.txt"
	HistoryFile  = "generations.csv"
)

func NewWriter(dir string) (*Writer, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	// Create a subfolder named by current timestamp, with a random suffix so runs
	// started within the same second do not share it
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	baseDir, err := os.MkdirTemp(dir, timestamp+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) Record(record GenerationRecord) error {
	if len(record.Weights) == 0 {
		return errors.New("generation record has no candidates")
	}
	err := w.writeSnapshot(record)
	if err != nil {
		return err
	}
	return w.appendHistory(record)
}

// writeSnapshot replaces the snapshot through a rename, so a reader or a crash
// never sees a partially written file.
func (w *Writer) writeSnapshot(record GenerationRecord) error {
	f, err := os.CreateTemp(w.baseDir, SnapshotFile+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(f.Name()) // No-op once renamed

	out := bufio.NewWriter(f)
	fmt.Fprintln(out, record.Generation)
	fmt.Fprintf(out, "Best value: %s\n", formatFloat(record.Best))
	fmt.Fprintf(out, "Worst value: %s\n", formatFloat(record.Worst))
	for _, weights := range record.Weights {
		fmt.Fprintln(out, formatWeights(weights))
	}
	err = out.Flush()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	err = f.Close()
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	err = os.Rename(f.Name(), filepath.Join(w.baseDir, SnapshotFile))
	if err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (w *Writer) appendHistory(record GenerationRecord) error {
	path := filepath.Join(w.baseDir, HistoryFile)
	info, err := os.Stat(path)
	fresh := errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	if fresh {
		header := []string{"generation", "best", "worst", "trials", "failures", "pieces", "look_aheads", "duration", "workers", "best_weights"}
		err = writer.Write(header)
		if err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}

	row := []string{
		strconv.Itoa(record.Generation),
		formatFloat(record.Best),
		formatFloat(record.Worst),
		strconv.Itoa(record.Trials),
		strconv.Itoa(record.Failures),
		strconv.Itoa(record.Pieces),
		strconv.Itoa(record.LookAheads),
		record.Duration.String(),
		strconv.Itoa(record.Workers),
		formatWeights(record.BestWeights()),
	}
	err = writer.Write(row)
	if err != nil {
		return fmt.Errorf("failed to write history row: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush history: %w", err)
	}
	return nil
}

type ThroughputRecord struct {
	TrialsPerSecond float64
	EvaluationMetric
}

func (w *Writer) WriteThroughputRecords(records []ThroughputRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "throughput.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create throughput file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	// Write header
	header := []string{"workers", "trials", "failures", "pieces", "duration", "trials_per_second"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write throughput header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Workers),
			strconv.Itoa(record.Trials),
			strconv.Itoa(record.Failures),
			strconv.Itoa(record.Pieces),
			record.Duration.String(),
			formatFloat(record.TrialsPerSecond),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write throughput row: %w", err)
		}
	}

	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatWeights(weights []float64) string {
	fields := make([]string, len(weights))
	for i, w := range weights {
		fields[i] = formatFloat(w)
	}
	return strings.Join(fields, " ")
}
