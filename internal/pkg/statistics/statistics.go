package statistics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/PixelShrink/app/models"
	"github.com/ManuelReschke/PixelShrink/app/repository"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
)

const (
	CacheKeyCompressionsTotal = "statistics:compressions:total"
	CacheKeyCompressionsOK    = "statistics:compressions:succeeded"
	CacheKeyCompressionsDaily = "statistics:compressions:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyBytesSaved        = "statistics:bytes:saved"
	CacheExpiration           = 30 * time.Minute
)

// StatisticsData is shown on the start page
type StatisticsData struct {
	TodayCompressions int64
	TotalCompressions int64
	Successes         int64
	BytesSaved        int64
	BytesSavedText    string
}

// Service records finished attempts and serves cached totals. Without a
// repository it keeps process local counters.
type Service struct {
	repo     repository.CompressionRepository
	validate *validator.Validate
	now      func() time.Time

	mu              sync.Mutex
	local           models.CompressionTotals
	localToday      int64
	localDay        string
	lastCacheUpdate time.Time
	updateInterval  time.Duration
}

var service *Service

// NewService creates a service; repo may be nil
func NewService(repo repository.CompressionRepository) *Service {
	return &Service{
		repo:           repo,
		validate:       validator.New(),
		now:            time.Now,
		updateInterval: 5 * time.Minute,
	}
}

// Setup installs the process wide service
func Setup(repo repository.CompressionRepository) *Service {
	service = NewService(repo)
	return service
}

// GetService returns the process wide service
func GetService() *Service {
	return service
}

// MaxFileNameLength matches the file_name column
const MaxFileNameLength = 255

// RecordFromAttempt maps a finished attempt to its database row. Long file
// names are cut to the column size so the attempt is still recorded.
func RecordFromAttempt(a shrink.Attempt) *models.Compression {
	rec := &models.Compression{
		SessionID:      a.Owner,
		FileName:       truncateRunes(a.FileName, MaxFileNameLength),
		MimeType:       a.MimeType,
		OriginalSize:   a.OriginalSize,
		CompressedSize: a.CompressedSize,
		TargetSizeKB:   a.TargetSizeKB,
		Succeeded:      a.Succeeded(),
		DurationMS:     a.Duration.Milliseconds(),
	}
	if a.Err != nil {
		rec.Error = a.Err.Error()
	}
	return rec
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// ObserveAttempt implements shrink.AttemptObserver
func (s *Service) ObserveAttempt(_ context.Context, a shrink.Attempt) {
	rec := RecordFromAttempt(a)
	if err := s.validate.Struct(rec); err != nil {
		log.Warnf("[Statistics] Skipping invalid record for %q: %v", a.FileName, err)
		return
	}

	s.mu.Lock()
	s.local.Attempts++
	if rec.Succeeded {
		s.local.Successes++
		s.local.BytesSaved += rec.BytesSaved()
	}
	today := s.now().Format("2006-01-02")
	if s.localDay != today {
		s.localDay = today
		s.localToday = 0
	}
	s.localToday++
	s.mu.Unlock()

	if !rec.Succeeded {
		log.Warnf("[Statistics] Failed compression of %q (%s, target %d KB): %s", rec.FileName, rec.MimeType, rec.TargetSizeKB, rec.Error)
	}

	if s.repo == nil {
		return
	}
	if err := s.repo.Create(rec); err != nil {
		log.Errorf("[Statistics] Error storing compression record: %v", err)
		return
	}
	s.invalidateCache(today)
}

func (s *Service) invalidateCache(today string) {
	if !cache.Enabled() {
		return
	}
	for _, key := range []string{
		CacheKeyCompressionsTotal,
		CacheKeyCompressionsOK,
		CacheKeyBytesSaved,
		fmt.Sprintf(CacheKeyCompressionsDaily, today),
	} {
		if err := cache.Delete(key); err != nil {
			log.Debugf("[Statistics] Error invalidating %s: %v", key, err)
		}
	}
}

// ShouldUpdateCache reports whether the refresh interval has elapsed
func (s *Service) ShouldUpdateCache() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.lastCacheUpdate) > s.updateInterval
}

// UpdateCacheIfNeeded refreshes the cache once per interval
func (s *Service) UpdateCacheIfNeeded() {
	if !s.ShouldUpdateCache() {
		return
	}
	if err := s.UpdateStatisticsCache(); err != nil {
		log.Errorf("[Statistics] Error updating statistics cache: %v", err)
	}
}

// UpdateStatisticsCache reads totals from the database into the cache
func (s *Service) UpdateStatisticsCache() error {
	if s.repo == nil || !cache.Enabled() {
		return nil
	}

	totals, err := s.repo.Totals()
	if err != nil {
		return err
	}
	today := s.now().Format("2006-01-02")
	todayCount, err := s.countToday()
	if err != nil {
		return err
	}

	values := map[string]int64{
		CacheKeyCompressionsTotal:                     totals.Attempts,
		CacheKeyCompressionsOK:                        totals.Successes,
		CacheKeyBytesSaved:                            totals.BytesSaved,
		fmt.Sprintf(CacheKeyCompressionsDaily, today): todayCount,
	}
	for key, v := range values {
		if err := cache.Set(key, strconv.FormatInt(v, 10), CacheExpiration); err != nil {
			return fmt.Errorf("error caching %s: %w", key, err)
		}
	}

	s.mu.Lock()
	s.lastCacheUpdate = s.now()
	s.mu.Unlock()

	log.Debugf("[Statistics] Cache updated: %d attempts, %d succeeded, %d bytes saved, %d today",
		totals.Attempts, totals.Successes, totals.BytesSaved, todayCount)
	return nil
}

func (s *Service) countToday() (int64, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.CountSince(start)
}

// GetStatisticsData returns the totals, from cache when possible
func (s *Service) GetStatisticsData() StatisticsData {
	if s.repo == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		today := s.localToday
		if s.localDay != s.now().Format("2006-01-02") {
			today = 0
		}
		return newStatisticsData(s.local, today)
	}

	if cached, ok := s.cachedTotals(); ok {
		return cached
	}

	totals, err := s.repo.Totals()
	if err != nil {
		log.Errorf("[Statistics] Error reading totals: %v", err)
		return newStatisticsData(models.CompressionTotals{}, 0)
	}
	today, err := s.countToday()
	if err != nil {
		log.Errorf("[Statistics] Error counting today's compressions: %v", err)
	}
	if cache.Enabled() {
		if err := s.UpdateStatisticsCache(); err != nil {
			log.Debugf("[Statistics] Cache refresh failed: %v", err)
		}
	}
	return newStatisticsData(*totals, today)
}

func (s *Service) cachedTotals() (StatisticsData, bool) {
	if !cache.Enabled() {
		return StatisticsData{}, false
	}
	keys := []string{
		CacheKeyCompressionsTotal,
		CacheKeyCompressionsOK,
		CacheKeyBytesSaved,
		fmt.Sprintf(CacheKeyCompressionsDaily, s.now().Format("2006-01-02")),
	}
	values := make([]int64, len(keys))
	for i, key := range keys {
		raw, err := cache.Get(key)
		if err != nil {
			return StatisticsData{}, false
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return StatisticsData{}, false
		}
		values[i] = v
	}
	return newStatisticsData(models.CompressionTotals{
		Attempts:   values[0],
		Successes:  values[1],
		BytesSaved: values[2],
	}, values[3]), true
}

func newStatisticsData(t models.CompressionTotals, today int64) StatisticsData {
	return StatisticsData{
		TodayCompressions: today,
		TotalCompressions: t.Attempts,
		Successes:         t.Successes,
		BytesSaved:        t.BytesSaved,
		BytesSavedText:    shrink.FormatBytes(t.BytesSaved),
	}
}

// GetStatisticsData reads from the process wide service
func GetStatisticsData() StatisticsData {
	if service == nil {
		return newStatisticsData(models.CompressionTotals{}, 0)
	}
	return service.GetStatisticsData()
}

// Diagnostics is the developer facing record of recent attempts
type Diagnostics struct {
	Totals         models.CompressionTotals `json:"totals"`
	RecentAttempts []models.Compression     `json:"recent_attempts"`
	RecentFailures []models.Compression     `json:"recent_failures"`
	Daily          []models.DailyStats      `json:"daily"`
}

// Diagnostics returns the last limit attempts and failures and the attempts
// per day over the last days days. Without a repository only the process
// local totals are known.
func (s *Service) Diagnostics(limit, days int) (*Diagnostics, error) {
	out := &Diagnostics{
		RecentAttempts: []models.Compression{},
		RecentFailures: []models.Compression{},
		Daily:          []models.DailyStats{},
	}
	if s.repo == nil {
		s.mu.Lock()
		out.Totals = s.local
		s.mu.Unlock()
		return out, nil
	}

	totals, err := s.repo.Totals()
	if err != nil {
		return nil, err
	}
	out.Totals = *totals

	if out.RecentAttempts, err = s.repo.GetRecent(limit); err != nil {
		return nil, fmt.Errorf("failed to load recent attempts: %w", err)
	}
	if out.RecentFailures, err = s.repo.GetRecentFailures(limit); err != nil {
		return nil, fmt.Errorf("failed to load recent failures: %w", err)
	}

	now := s.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	start := end.AddDate(0, 0, -days).Add(time.Second)
	if out.Daily, err = s.repo.GetDailyStats(start, end); err != nil {
		return nil, err
	}
	return out, nil
}
