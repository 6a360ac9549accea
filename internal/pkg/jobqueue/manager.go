package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Job is a periodic maintenance task
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Manager runs registered jobs on their own tickers
type Manager struct {
	jobs    []Job
	tickers []*time.Ticker
	stopCh  chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager()
	})
	return globalManager
}

func NewManager() *Manager {
	return &Manager{stopCh: make(chan struct{})}
}

// Register adds a job. Jobs added while running start with the next Start.
func (m *Manager) Register(jobs ...Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range jobs {
		if j.Interval <= 0 || j.Run == nil {
			log.Warnf("[JobQueue Manager] Ignoring job %q without interval or func", j.Name)
			continue
		}
		m.jobs = append(m.jobs, j)
	}
}

// Jobs returns the names of the registered jobs
func (m *Manager) Jobs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.jobs))
	for _, j := range m.jobs {
		names = append(names, j.Name)
	}
	return names
}

// Start starts one worker per registered job
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// A fresh stop channel per cycle so the manager can be restarted.
	m.stopCh = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	log.Infof("[JobQueue Manager] Starting %d background jobs", len(m.jobs))

	m.tickers = m.tickers[:0]
	for _, j := range m.jobs {
		ticker := time.NewTicker(j.Interval)
		m.tickers = append(m.tickers, ticker)
		m.wg.Add(1)
		go m.worker(ctx, j, ticker, m.stopCh)
	}
}

// Stop stops all workers and waits for a running job to return
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping background jobs...")
	for _, t := range m.tickers {
		t.Stop()
	}
	close(m.stopCh)
	m.cancel()
	m.running = false

	m.wg.Wait()
	log.Info("[JobQueue Manager] Stopped successfully")
}

func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// RunOnce executes the named job immediately
func (m *Manager) RunOnce(ctx context.Context, name string) bool {
	m.mu.Lock()
	var job *Job
	for i := range m.jobs {
		if m.jobs[i].Name == name {
			job = &m.jobs[i]
			break
		}
	}
	m.mu.Unlock()

	if job == nil {
		return false
	}
	runJob(ctx, *job)
	return true
}

func (m *Manager) worker(ctx context.Context, j Job, ticker *time.Ticker, stopCh chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			runJob(ctx, j)
		}
	}
}

func runJob(ctx context.Context, j Job) {
	if err := j.Run(ctx); err != nil {
		log.Errorf("[JobQueue] %s failed: %v", j.Name, err)
	}
}
