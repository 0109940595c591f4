package janitor

import (
	"log"
	"sync"
	"time"

	"github.com/sketchsync/backend/internal/room"
)

type Config struct {
	Interval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval: 5 * time.Minute,
	}
}

// Service periodically sweeps rooms whose member set is empty. Leave
// already garbage-collects rooms synchronously; the sweep is a backstop
// for rooms orphaned by disconnect races.
type Service struct {
	manager *room.Manager
	config  Config
	stop    chan struct{}
	wg      sync.WaitGroup
}

func New(manager *room.Manager, config Config) *Service {
	return &Service{
		manager: manager,
		config:  config,
		stop:    make(chan struct{}),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	log.Printf("🧹 Janitor started (interval: %v)", s.config.Interval)
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	log.Println("🧹 Janitor stopped")
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	if count := s.manager.SweepEmptyRooms(); count > 0 {
		log.Printf("🧹 Swept %d empty rooms", count)
	}
}

// SweepNow runs one sweep outside the timer, for the admin API.
func (s *Service) SweepNow() int {
	return s.manager.SweepEmptyRooms()
}
