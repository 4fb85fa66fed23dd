package cronjobs

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// InitCronJobs starts the hourly sweep of stale per-region output. inFlight
// reports whether a region directory belongs to a running analysis; those are
// never touched.
func InitCronJobs(outputRoot string, retention time.Duration, inFlight func(regionDir string) bool) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Stale output sweep: run hourly on the hour.
	_, err := c.AddFunc("0 * * * *", func() {
		log.Println("\nCronJob: Stale Output Sweep Running")
		SweepStaleOutput(outputRoot, retention, inFlight)
	})
	if err != nil {
		log.Println("Error scheduling Stale Output Sweep:", err)
	}

	c.Start()
}

// SweepStaleOutput removes region output directories whose newest file is
// older than the retention window.
func SweepStaleOutput(outputRoot string, retention time.Duration, inFlight func(regionDir string) bool) {
	for _, root := range []string{outputRoot, filepath.Join(outputRoot, "flooded")} {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || e.Name() == "flooded" {
				continue
			}
			if inFlight != nil && inFlight(e.Name()) {
				continue
			}
			dir := filepath.Join(root, e.Name())
			if newest := newestModTime(dir); !newest.IsZero() && time.Since(newest) > retention {
				log.Printf("Sweeping stale output %s (last touched %s)", dir, newest.Format(time.RFC3339))
				if err := os.RemoveAll(dir); err != nil {
					log.Printf("Error sweeping %s: %v", dir, err)
				}
			}
		}
	}
}

func newestModTime(dir string) time.Time {
	var newest time.Time
	filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err == nil && info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return newest
}
