package services

import (
	"context"
	"log"
	"time"
)

// RefreshService periodically reloads the parking dataset so a replaced
// export file is picked up without a restart.
type RefreshService struct {
	parkingService *ParkingService
	interval       time.Duration

	stopChan chan struct{}
	running  bool
}

// NewRefreshService creates a new periodic refresh service.
func NewRefreshService(parkingService *ParkingService, interval time.Duration) *RefreshService {
	return &RefreshService{
		parkingService: parkingService,
		interval:       interval,
		stopChan:       make(chan struct{}),
	}
}

// Start begins periodic dataset reloads.
func (r *RefreshService) Start(ctx context.Context) error {
	if r.running {
		return nil // Already running
	}
	r.running = true

	log.Printf("Starting dataset refresh every %v", r.interval)
	go r.refreshLoop(ctx)
	return nil
}

// Stop gracefully stops the periodic refresh.
func (r *RefreshService) Stop() {
	if !r.running {
		return
	}
	r.running = false
	close(r.stopChan)
	log.Printf("Stopped dataset refresh service")
}

// IsRunning returns whether periodic refresh is active.
func (r *RefreshService) IsRunning() bool {
	return r.running
}

func (r *RefreshService) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Dataset refresh stopping due to context cancellation")
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			// A failed reload keeps the previous dataset in memory
			if err := r.parkingService.Load(); err != nil {
				log.Printf("Dataset refresh failed: %v", err)
			}
		}
	}
}
