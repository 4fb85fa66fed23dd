package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"resgeo/types"
)

const historyFile = "report_history.json"

var historyMu sync.Mutex

// AppendHistory records a completed run in the on-disk history used by export.
func AppendHistory(outputRoot string, summary types.RunSummary) error {
	historyMu.Lock()
	defer historyMu.Unlock()

	history, err := readHistory(outputRoot)
	if err != nil {
		return err
	}
	history = append(history, summary)

	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return &types.FilesystemError{Op: "mkdir", Path: outputRoot, Err: err}
	}
	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	path := filepath.Join(outputRoot, historyFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &types.FilesystemError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Export assembles the offline-audit document from the full run history.
func Export(outputRoot string) (types.ExportDocument, error) {
	historyMu.Lock()
	defer historyMu.Unlock()

	history, err := readHistory(outputRoot)
	if err != nil {
		return types.ExportDocument{}, err
	}

	doc := types.ExportDocument{
		ExportedAt:    time.Now().UTC(),
		TotalAnalyses: len(history),
		History:       history,
	}

	regions := make(map[string]bool)
	for _, run := range history {
		doc.TotalFlooded += run.FloodedTiles
		regions[run.Region] = true
	}
	for name := range regions {
		doc.RegionsCovered = append(doc.RegionsCovered, name)
	}
	sort.Strings(doc.RegionsCovered)

	return doc, nil
}

func readHistory(outputRoot string) ([]types.RunSummary, error) {
	data, err := os.ReadFile(filepath.Join(outputRoot, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []types.RunSummary
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return history, nil
}
