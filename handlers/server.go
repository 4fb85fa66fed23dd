// Package handlers implements the JSON API surface of the dashboard.
package handlers

import (
	"sync"

	"resgeo/detection"
	"resgeo/geodata"
	"resgeo/types"
)

// Server bundles the pipeline dependencies shared by the handlers and tracks
// in-flight runs so reset and the cron sweep never race an acquisition.
type Server struct {
	Runner     *detection.Runner
	Victim     *detection.VictimStage
	Dataset    *geodata.Dataset
	OutputRoot string

	mu       sync.Mutex
	inFlight map[string]bool
	latest   map[string]*types.RegionAnalysisReport
}

// NewServer builds the handler state around a configured runner.
func NewServer(runner *detection.Runner, victim *detection.VictimStage, dataset *geodata.Dataset, outputRoot string) *Server {
	return &Server{
		Runner:     runner,
		Victim:     victim,
		Dataset:    dataset,
		OutputRoot: outputRoot,
		inFlight:   make(map[string]bool),
		latest:     make(map[string]*types.RegionAnalysisReport),
	}
}

// InFlight reports whether a region (by directory name) has a running analysis.
func (s *Server) InFlight(regionDir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[regionDir]
}

func (s *Server) tryStart(regionDir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[regionDir] {
		return false
	}
	s.inFlight[regionDir] = true
	return true
}

func (s *Server) finish(regionDir string, rep *types.RegionAnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, regionDir)
	if rep != nil {
		s.latest[regionDir] = rep
	}
}

func (s *Server) latestReport(regionDir string) *types.RegionAnalysisReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[regionDir]
}

func (s *Server) dropReport(regionDir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, regionDir)
}
