package shrink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// Controller drives the select -> compress -> download pipeline for one
// session. All methods are safe for concurrent use.
type Controller struct {
	id         string
	compressor Compressor
	downloads  DownloadStore
	observers  []AttemptObserver
	timeout    time.Duration
	now        func() time.Time

	mu         sync.Mutex
	state      State
	file       *File
	status     Status
	download   *Download
	task       *Task
	generation uint64
	lastActive time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithID sets the owner id recorded on stored downloads
func WithID(id string) Option {
	return func(c *Controller) { c.id = id }
}

// WithTimeout bounds every attempt. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithObserver registers observers for finished attempts
func WithObserver(observers ...AttemptObserver) Option {
	return func(c *Controller) { c.observers = append(c.observers, observers...) }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates an idle controller
func NewController(compressor Compressor, downloads DownloadStore, opts ...Option) *Controller {
	c := &Controller{
		compressor: compressor,
		downloads:  downloads,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastActive = c.now()
	return c
}

// ID returns the owner id
func (c *Controller) ID() string {
	return c.id
}

// HandleFile validates and stores a newly picked file. Any previous result is
// revoked and any running attempt is abandoned.
func (c *Controller) HandleFile(ctx context.Context, file File) error {
	c.mu.Lock()
	c.touchLocked()
	c.status = Status{}
	c.supersedeLocked()
	stale := c.takeDownloadLocked()

	if !IsSupportedType(file.MimeType) {
		c.file = nil
		c.state = StateIdle
		c.status = Status{Kind: KindError, Code: CodeUnsupportedFormat}
		c.mu.Unlock()

		c.revoke(ctx, stale)
		log.Infof("[Shrink] Rejected %q with type %q", file.Name, file.MimeType)
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, file.MimeType)
	}

	if file.Size <= 0 {
		file.Size = int64(len(file.Data))
	}
	c.file = &file
	c.state = StateFileSelected
	c.status = Status{Kind: KindInfo, Code: CodeFileReady}
	c.mu.Unlock()

	c.revoke(ctx, stale)
	log.Debugf("[Shrink] Selected %q (%s)", file.Name, FormatBytes(file.Size))
	return nil
}

// Compress starts an attempt for the selected file. The returned Task
// finishes when the compressor is done; the controller state is updated
// before the Task completes.
func (c *Controller) Compress(ctx context.Context, targetInput string) (*Task, error) {
	c.mu.Lock()
	c.touchLocked()

	if c.state == StateCompressing {
		c.mu.Unlock()
		return nil, ErrCompressionInProgress
	}
	if c.file == nil {
		c.status = Status{Kind: KindError, Code: CodeNoFileSelected}
		c.mu.Unlock()
		return nil, ErrNoFileSelected
	}
	targetKB, err := ParseTargetSize(targetInput)
	if err != nil {
		c.status = Status{Kind: KindError, Code: CodeInvalidTargetSize}
		c.mu.Unlock()
		return nil, err
	}

	stale := c.takeDownloadLocked()
	c.generation++
	generation := c.generation
	file := *c.file

	taskCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if c.timeout > 0 {
		var cancelTimeout context.CancelFunc
		taskCtx, cancelTimeout = context.WithTimeout(taskCtx, c.timeout)
		parentCancel := cancel
		cancel = func() {
			cancelTimeout()
			parentCancel()
		}
	}
	task := newTask(cancel)

	c.task = task
	c.state = StateCompressing
	c.status = Status{Kind: KindInfo, Code: CodeCompressing}
	c.mu.Unlock()

	c.revoke(ctx, stale)

	go c.run(taskCtx, generation, task, file, targetKB)
	return task, nil
}

func (c *Controller) run(ctx context.Context, generation uint64, task *Task, file File, targetKB int) {
	started := c.now()
	opts := OptionsForTarget(targetKB)
	log.Infof("[Shrink] Compressing %q (%s) to %d KB", file.Name, FormatBytes(file.Size), targetKB)

	out, err := c.compressor.Compress(ctx, file, opts)
	if err == nil && (out == nil || len(out.Data) == 0) {
		err = errors.New("compressor returned no data")
	}

	var download *Download
	if err == nil {
		if !c.isCurrent(generation) {
			task.finish(nil, ErrSuperseded)
			return
		}
		mimeType := out.MimeType
		if mimeType == "" {
			mimeType = file.MimeType
		}
		download, err = c.downloads.Save(ctx, Blob{
			Owner:    c.id,
			Name:     DownloadName(file.Name),
			MimeType: mimeType,
			Data:     out.Data,
		})
		if err != nil {
			err = fmt.Errorf("store result: %w", err)
		}
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		c.revoke(context.WithoutCancel(ctx), download)
		task.finish(nil, ErrSuperseded)
		return
	}

	c.task = nil
	if err != nil {
		err = &CompressionError{FileName: file.Name, Err: err}
		download = nil
		c.download = nil
		c.state = StateFailed
		c.status = Status{Kind: KindError, Code: CodeCompressionFailed, Detail: err.Error()}
	} else {
		download.FileName = DownloadName(file.Name)
		download.SizeText = FormatBytes(download.Size)
		c.download = download
		c.state = StateSucceeded
		c.status = Status{Kind: KindSuccess, Code: CodeCompressed}
	}
	c.mu.Unlock()

	attempt := Attempt{
		Owner:        c.id,
		FileName:     file.Name,
		MimeType:     file.MimeType,
		OriginalSize: file.Size,
		TargetSizeKB: targetKB,
		Duration:     c.now().Sub(started),
		Err:          err,
	}
	if err != nil {
		log.Errorf("[Shrink] Compression of %q failed: %v", file.Name, err)
		task.finish(nil, err)
	} else {
		attempt.CompressedSize = download.Size
		attempt.Download = download
		attempt.Data = out.Data
		log.Infof("[Shrink] Compressed %q: %s -> %s", file.Name, FormatBytes(file.Size), download.SizeText)
		task.finish(download, nil)
	}

	observeCtx := context.WithoutCancel(ctx)
	for _, o := range c.observers {
		o.ObserveAttempt(observeCtx, attempt)
	}
}

// Snapshot returns the current view
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:        c.state,
		Status:       c.status,
		CanCompress:  c.state != StateCompressing,
		ShowControls: c.file != nil,
	}
	if c.file != nil {
		v.File = &FileInfo{
			Name:     c.file.Name,
			Size:     c.file.Size,
			SizeText: FormatBytes(c.file.Size),
			MimeType: c.file.MimeType,
		}
	}
	if c.download != nil {
		d := *c.download
		v.Download = &d
	}
	return v
}

// SelectedFile returns the currently selected file, if any
func (c *Controller) SelectedFile() (File, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		return File{}, false
	}
	return *c.file, true
}

// OwnsDownload reports whether token is the download currently exposed
func (c *Controller) OwnsDownload(token string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.download != nil && c.download.Token == token
}

// RevokeDownload hides and revokes the exposed download
func (c *Controller) RevokeDownload(ctx context.Context) error {
	c.mu.Lock()
	c.touchLocked()
	stale := c.takeDownloadLocked()
	if stale != nil && c.state == StateSucceeded {
		c.state = StateFileSelected
	}
	c.mu.Unlock()

	if stale == nil {
		return nil
	}
	return c.downloads.Revoke(ctx, stale.Token)
}

// Close abandons running work and revokes the exposed download
func (c *Controller) Close(ctx context.Context) {
	c.mu.Lock()
	c.supersedeLocked()
	stale := c.takeDownloadLocked()
	c.file = nil
	c.state = StateIdle
	c.status = Status{}
	c.mu.Unlock()

	c.revoke(ctx, stale)
}

// LastActive is the time of the last user-driven call
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Touch marks the controller as in use
func (c *Controller) Touch() {
	c.mu.Lock()
	c.touchLocked()
	c.mu.Unlock()
}

func (c *Controller) touchLocked() {
	c.lastActive = c.now()
}

func (c *Controller) isCurrent(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return generation == c.generation
}

// supersedeLocked cancels a running attempt and makes its outcome stale
func (c *Controller) supersedeLocked() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
	c.generation++
}

func (c *Controller) takeDownloadLocked() *Download {
	d := c.download
	c.download = nil
	return d
}

func (c *Controller) revoke(ctx context.Context, d *Download) {
	if d == nil {
		return
	}
	if err := c.downloads.Revoke(ctx, d.Token); err != nil {
		log.Warnf("[Shrink] Failed to revoke download %s: %v", d.Token, err)
	}
}
