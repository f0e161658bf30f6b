package texres

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Memory management errors.
var (
	// ErrMemoryBudgetExceeded is returned when allocation would exceed budget.
	ErrMemoryBudgetExceeded = errors.New("texres: memory budget exceeded")

	// ErrMemoryManagerClosed is returned when operating on a closed manager.
	ErrMemoryManagerClosed = errors.New("texres: memory manager closed")
)

// Default memory limits.
const (
	// DefaultMaxMemoryMB is the default maximum GPU memory budget (256 MB).
	DefaultMaxMemoryMB = 256

	// DefaultEvictionThreshold is when eviction starts (80% of budget).
	DefaultEvictionThreshold = 0.8

	// MinMemoryMB is the minimum allowed memory budget (16 MB).
	MinMemoryMB = 16
)

// MemoryStats contains texture memory usage statistics.
type MemoryStats struct {
	// TotalBytes is the total memory budget in bytes.
	TotalBytes uint64

	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// AvailableBytes is the remaining memory budget.
	AvailableBytes uint64

	// TextureCount is the number of managed textures.
	TextureCount int

	// EvictionCount is the total number of textures evicted.
	EvictionCount uint64

	// Utilization is the fraction of budget used (0.0 to 1.0).
	Utilization float64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d MB, %d textures, %d evictions]",
		s.Utilization*100,
		s.UsedBytes/(1024*1024),
		s.TotalBytes/(1024*1024),
		s.TextureCount,
		s.EvictionCount)
}

// textureEntry tracks a texture in the memory manager with LRU information.
type textureEntry struct {
	texture   *NativeTexture
	sizeBytes uint64
	lastUsed  time.Time
	element   *list.Element // position in LRU list
}

// MemoryManager tracks texture memory against a budget and evicts the
// least recently used textures when the budget is exceeded. Eviction goes
// through Texture.Dispose, so GPU teardown still happens at the context's
// safe point, never synchronously.
//
// MemoryManager is safe for concurrent use.
type MemoryManager struct {
	mu sync.Mutex

	ctx *Context

	budgetBytes uint64
	usedBytes   uint64

	textures map[*NativeTexture]*textureEntry

	// LRU list (front = most recently used, back = least recently used).
	lruList *list.List

	evictionCount     uint64
	evictionThreshold float64

	closed bool
}

// MemoryManagerConfig holds configuration for creating a MemoryManager.
type MemoryManagerConfig struct {
	// MaxMemoryMB is the maximum memory budget in megabytes.
	// Defaults to DefaultMaxMemoryMB if below MinMemoryMB.
	MaxMemoryMB int

	// EvictionThreshold is the usage fraction at which eviction starts.
	// Defaults to DefaultEvictionThreshold if out of (0, 1].
	EvictionThreshold float64
}

// NewMemoryManager creates a memory manager allocating textures on the
// given context.
func NewMemoryManager(ctx *Context, config MemoryManagerConfig) *MemoryManager {
	maxMB := config.MaxMemoryMB
	if maxMB < MinMemoryMB {
		maxMB = DefaultMaxMemoryMB
	}

	threshold := config.EvictionThreshold
	if threshold <= 0 || threshold > 1.0 {
		threshold = DefaultEvictionThreshold
	}

	return &MemoryManager{
		ctx:               ctx,
		budgetBytes:       uint64(maxMB) * 1024 * 1024,
		textures:          make(map[*NativeTexture]*textureEntry),
		lruList:           list.New(),
		evictionThreshold: threshold,
	}
}

// AllocTexture creates a managed texture. If the allocation would exceed
// the memory budget, LRU eviction runs first. Returns an error if the
// allocation cannot be satisfied even after eviction.
func (m *MemoryManager) AllocTexture(config TextureConfig) (*NativeTexture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrMemoryManagerClosed
	}

	format := config.Format
	bpp := format.BytesPerPixel()
	requiredBytes := uint64(config.Width) * uint64(config.Height) * uint64(bpp)

	if requiredBytes > m.budgetBytes {
		return nil, fmt.Errorf("%w: texture size %d MB exceeds total budget %d MB",
			ErrMemoryBudgetExceeded,
			requiredBytes/(1024*1024),
			m.budgetBytes/(1024*1024))
	}

	if err := m.evictIfNeeded(requiredBytes); err != nil {
		return nil, err
	}

	tex, err := m.ctx.NewTexture(config)
	if err != nil {
		return nil, err
	}

	m.registerTextureLocked(tex, requiredBytes)
	return tex, nil
}

// FreeTexture disposes a texture and returns its budget. The GPU object is
// destroyed at the next safe point.
func (m *MemoryManager) FreeTexture(tex *NativeTexture) error {
	if tex == nil {
		return nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrMemoryManagerClosed
	}
	if entry, ok := m.textures[tex]; ok {
		m.removeTextureLocked(entry)
	}
	m.mu.Unlock()

	// Manager reference already cleared, so Dispose will not re-enter.
	tex.Dispose()
	return nil
}

// Stats returns current memory usage statistics.
func (m *MemoryManager) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	var utilization float64
	if m.budgetBytes > 0 {
		utilization = float64(m.usedBytes) / float64(m.budgetBytes)
	}

	return MemoryStats{
		TotalBytes:     m.budgetBytes,
		UsedBytes:      m.usedBytes,
		AvailableBytes: m.budgetBytes - m.usedBytes,
		TextureCount:   len(m.textures),
		EvictionCount:  m.evictionCount,
		Utilization:    utilization,
	}
}

// SetBudget updates the memory budget. If the new budget is lower than
// current usage, eviction runs immediately.
func (m *MemoryManager) SetBudget(megabytes int) error {
	if megabytes < MinMemoryMB {
		megabytes = MinMemoryMB
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMemoryManagerClosed
	}

	m.budgetBytes = uint64(megabytes) * 1024 * 1024
	return m.evictIfNeeded(0)
}

// Contains reports whether the texture is managed by this manager.
func (m *MemoryManager) Contains(tex *NativeTexture) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.textures[tex]
	return ok
}

// Close disposes all managed textures and closes the manager. Teardown of
// the GPU objects still happens at the context's next safe point.
func (m *MemoryManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	entries := make([]*textureEntry, 0, len(m.textures))
	for _, entry := range m.textures {
		entries = append(entries, entry)
	}
	for _, entry := range entries {
		m.removeTextureLocked(entry)
	}
	m.textures = nil
	m.lruList = nil
	m.usedBytes = 0
	m.closed = true
	m.mu.Unlock()

	for _, entry := range entries {
		entry.texture.Dispose()
	}
}

// registerTextureLocked adds a texture to management. Caller must hold mu.
func (m *MemoryManager) registerTextureLocked(tex *NativeTexture, sizeBytes uint64) {
	entry := &textureEntry{
		texture:   tex,
		sizeBytes: sizeBytes,
		lastUsed:  time.Now(),
	}
	entry.element = m.lruList.PushFront(entry)
	m.textures[tex] = entry
	m.usedBytes += sizeBytes

	tex.setMemoryManager(m)
}

// unregisterTexture removes a texture from management. Called by
// NativeTexture.Dispose.
func (m *MemoryManager) unregisterTexture(tex *NativeTexture) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if entry, ok := m.textures[tex]; ok {
		m.removeTextureLocked(entry)
	}
}

// removeTextureLocked drops an entry from tracking and clears the
// texture's back-reference so its Dispose cannot re-enter the manager.
// Caller must hold mu.
func (m *MemoryManager) removeTextureLocked(entry *textureEntry) {
	if entry.element != nil {
		m.lruList.Remove(entry.element)
		entry.element = nil
	}
	delete(m.textures, entry.texture)
	m.usedBytes -= entry.sizeBytes

	entry.texture.setMemoryManager(nil)
}

// touchTexture moves a texture to the front of the LRU list. Called by
// textures on upload and bind.
func (m *MemoryManager) touchTexture(tex *NativeTexture) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if entry, ok := m.textures[tex]; ok {
		entry.lastUsed = time.Now()
		m.lruList.MoveToFront(entry.element)
	}
}

// evictIfNeeded disposes least-recently-used textures until the requested
// size fits the budget. Caller must hold mu.
func (m *MemoryManager) evictIfNeeded(requestedBytes uint64) error {
	targetBytes := m.usedBytes + requestedBytes
	thresholdBytes := uint64(float64(m.budgetBytes) * m.evictionThreshold)

	if targetBytes <= m.budgetBytes && m.usedBytes < thresholdBytes {
		return nil
	}

	for targetBytes > m.budgetBytes && m.lruList.Len() > 0 {
		elem := m.lruList.Back()
		if elem == nil {
			break
		}
		entry, ok := elem.Value.(*textureEntry)
		if !ok {
			m.lruList.Remove(elem)
			continue
		}

		tex := entry.texture
		m.removeTextureLocked(entry)
		tex.Dispose()

		m.evictionCount++
		targetBytes = m.usedBytes + requestedBytes
	}

	if targetBytes > m.budgetBytes {
		return fmt.Errorf("%w: need %d bytes, have %d bytes available",
			ErrMemoryBudgetExceeded, requestedBytes, m.budgetBytes-m.usedBytes)
	}
	return nil
}
