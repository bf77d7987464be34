package workshop

import (
    "context"
    "sync"
    "time"

    "github.com/iliyamo/workshop-job-service/internal/lifecycle"
    "github.com/iliyamo/workshop-job-service/internal/model"
)

// MemoryStore is an in-process Store backed by maps under one mutex.
// One critical section spans every Atomically call, which satisfies
// the allocator's exclusivity requirement the same way the MySQL row
// locks do.  The callback operates on a copy of the state; an error
// discards the copy, so failed compound operations leave nothing
// behind.  Used by the package tests and handy for local runs without
// a database.
type MemoryStore struct {
    mu sync.Mutex

    jobs   map[uint64]*model.JobCard
    booths map[uint64]*model.Booth
    mixes  []model.PaintMix

    nextJobID   uint64
    nextBoothID uint64
    nextMixID   uint64

    now func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        jobs:   make(map[uint64]*model.JobCard),
        booths: make(map[uint64]*model.Booth),
        now:    func() time.Time { return time.Now().UTC() },
    }
}

// Atomically runs fn inside the store's critical section.  Writes are
// staged on a snapshot and swapped in only when fn returns nil.
func (s *MemoryStore) Atomically(ctx context.Context, fn func(tx Tx) error) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()

    tx := &memTx{
        jobs:        make(map[uint64]*model.JobCard, len(s.jobs)),
        booths:      make(map[uint64]*model.Booth, len(s.booths)),
        mixes:       append([]model.PaintMix(nil), s.mixes...),
        nextJobID:   s.nextJobID,
        nextBoothID: s.nextBoothID,
        nextMixID:   s.nextMixID,
        now:         s.now,
    }
    for id, j := range s.jobs {
        tx.jobs[id] = cloneJob(j)
    }
    for id, b := range s.booths {
        tx.booths[id] = cloneBooth(b)
    }

    if err := fn(tx); err != nil {
        return err
    }

    s.jobs = tx.jobs
    s.booths = tx.booths
    s.mixes = tx.mixes
    s.nextJobID = tx.nextJobID
    s.nextBoothID = tx.nextBoothID
    s.nextMixID = tx.nextMixID
    return nil
}

// memTx stages mutations against copies of the store's maps.
type memTx struct {
    jobs        map[uint64]*model.JobCard
    booths      map[uint64]*model.Booth
    mixes       []model.PaintMix
    nextJobID   uint64
    nextBoothID uint64
    nextMixID   uint64
    now         func() time.Time
}

func (t *memTx) Job(ctx context.Context, id uint64) (*model.JobCard, error) {
    j, ok := t.jobs[id]
    if !ok {
        return nil, ErrJobNotFound
    }
    return cloneJob(j), nil
}

func (t *memTx) Booth(ctx context.Context, id uint64) (*model.Booth, error) {
    b, ok := t.booths[id]
    if !ok {
        return nil, ErrBoothNotFound
    }
    return cloneBooth(b), nil
}

func (t *memTx) CreateJob(ctx context.Context, job *model.JobCard) error {
    t.nextJobID++
    now := t.now()
    job.ID = t.nextJobID
    job.Version = 1
    job.CreatedAt = now
    job.UpdatedAt = now
    t.jobs[job.ID] = cloneJob(job)
    return nil
}

func (t *memTx) SaveJob(ctx context.Context, job *model.JobCard) error {
    stored, ok := t.jobs[job.ID]
    if !ok {
        return ErrJobNotFound
    }
    if stored.Version != job.Version {
        return lifecycle.ErrStaleVersion
    }
    job.Version++
    job.UpdatedAt = t.now()
    t.jobs[job.ID] = cloneJob(job)
    return nil
}

func (t *memTx) CreateBooth(ctx context.Context, booth *model.Booth) error {
    t.nextBoothID++
    now := t.now()
    booth.ID = t.nextBoothID
    booth.CreatedAt = now
    booth.UpdatedAt = now
    t.booths[booth.ID] = cloneBooth(booth)
    return nil
}

func (t *memTx) SaveBooth(ctx context.Context, booth *model.Booth) error {
    if _, ok := t.booths[booth.ID]; !ok {
        return ErrBoothNotFound
    }
    booth.UpdatedAt = t.now()
    t.booths[booth.ID] = cloneBooth(booth)
    return nil
}

func (t *memTx) AppendMix(ctx context.Context, mix *model.PaintMix) error {
    t.nextMixID++
    mix.ID = t.nextMixID
    mix.CreatedAt = t.now()
    t.mixes = append(t.mixes, *mix)
    return nil
}

func (t *memTx) MixesByJob(ctx context.Context, jobID uint64) ([]model.PaintMix, error) {
    var out []model.PaintMix
    for _, m := range t.mixes {
        if m.JobID == jobID {
            out = append(out, m)
        }
    }
    return out, nil
}

func cloneJob(j *model.JobCard) *model.JobCard {
    cp := *j
    if j.CurrentBoothID != nil {
        id := *j.CurrentBoothID
        cp.CurrentBoothID = &id
    }
    cp.LineItems = append([]model.LineItem(nil), j.LineItems...)
    return &cp
}

func cloneBooth(b *model.Booth) *model.Booth {
    cp := *b
    if b.CurrentJobID != nil {
        id := *b.CurrentJobID
        cp.CurrentJobID = &id
    }
    if b.TemperatureC != nil {
        temp := *b.TemperatureC
        cp.TemperatureC = &temp
    }
    return &cp
}
