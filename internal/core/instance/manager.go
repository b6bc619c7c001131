package instance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/skeletal/internal/core/events/bus"
	"github.com/zeusync/skeletal/internal/core/observability/log"
	"github.com/zeusync/skeletal/internal/core/playback"
	"github.com/zeusync/skeletal/internal/core/skeletal"
	"github.com/zeusync/skeletal/pkg/concurrent"
	"github.com/zeusync/skeletal/pkg/sequence"
)

var now = time.Now

// Manager owns skeleton instances and ticks them together. Instances are
// updated in parallel; the records they produce are published to the bus
// only after every instance finished, in instance id order, with the
// instance id as topic.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance

	bus       bus.EventBus
	log       log.Log
	workers   int
	timeScale float32
}

// Options tune a Manager. The zero value is usable.
type Options struct {
	// Workers bounds the instances updated at once. Zero or less means
	// one goroutine per instance.
	Workers int
	// TimeScale is set on the animation state of every added instance.
	// Zero means 1.
	TimeScale float32
}

func NewManager(events bus.EventBus, logger log.Log, opts Options) *Manager {
	if opts.TimeScale == 0 {
		opts.TimeScale = 1
	}
	m := &Manager{
		instances: make(map[string]*Instance),
		bus:       events,
		log:       logger.With(log.Component("instance-manager")),
		workers:   opts.Workers,
		timeScale: opts.TimeScale,
	}
	events.AddObserver(deliveryLogger{log: m.log})
	return m
}

// Bus is where records are published.
func (m *Manager) Bus() bus.EventBus { return m.bus }

// Add creates an instance of data in its setup pose. stateData must have
// been created for data.
func (m *Manager) Add(data *skeletal.SkeletonData, stateData *playback.AnimationStateData) (*Instance, error) {
	if data == nil {
		return nil, ErrNilData
	}
	if stateData == nil {
		stateData = playback.NewAnimationStateData(data)
	} else if stateData.SkeletonData() != data {
		return nil, ErrMismatchedData
	}

	skeleton := skeletal.NewSkeleton(data)
	skeleton.UpdateWorldTransform(skeletal.PhysicsPose)
	state := playback.NewAnimationState(stateData)
	state.SetTimeScale(m.timeScale)

	inst := &Instance{ID: uuid.NewString(), Skeleton: skeleton, State: state}
	if err := m.bus.CreateTopic(inst.ID, bus.TopicConfig{Description: data.Name}); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	m.mu.Lock()
	m.instances[inst.ID] = inst
	n := len(m.instances)
	m.mu.Unlock()

	m.log.Info("instance added",
		log.Instance(inst.ID),
		log.String("skeleton", data.Name),
		log.Int("bones", len(data.Bones)),
		log.Int("instances", n),
	)
	return inst, nil
}

func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// Remove drops the instance and its topic. Records it produced since the
// last Tick are discarded.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	_, ok := m.instances[id]
	delete(m.instances, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := m.bus.RemoveTopic(id); err != nil {
		return err
	}
	m.log.Info("instance removed", log.Instance(id))
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.instances)
}

// IDs returns the instance ids in ascending order.
func (m *Manager) IDs() []string {
	return sequence.Map(m.sorted(), func(i *Instance) string { return i.ID }).Collect()
}

func (m *Manager) sorted() *sequence.Iterator[*Instance] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sequence.From(sequence.FromMap(m.instances).Collect())
}

// Tick advances every instance by delta seconds: animation state update
// and apply, then the world transform. Failing instances do not stop the
// others; their errors are joined. Records of the instances that
// succeeded are published afterwards.
func (m *Manager) Tick(ctx context.Context, delta float32) error {
	instances := m.sorted().Collect()
	start := now()

	var (
		errMu sync.Mutex
		errs  []error
	)
	// Failures are collected rather than returned so one broken
	// instance does not cancel the rest of the tick.
	ctxErr := concurrent.Concurrent(ctx, sequence.From(instances), m.workers, func(_ context.Context, inst *Instance) error {
		if err := inst.tick(delta); err != nil {
			m.log.Error("tick failed", log.Instance(inst.ID), log.Error(err))
			errMu.Lock()
			errs = append(errs, err)
			errMu.Unlock()
		}
		return nil
	})

	var events []bus.Event
	for _, inst := range instances {
		for _, e := range inst.takePending() {
			events = append(events, e)
		}
	}
	var publishErr error
	if len(events) > 0 {
		publishErr = m.bus.PublishBatch(events...)
	}

	m.log.Debug("tick",
		log.Int("instances", len(instances)),
		log.Int("records", len(events)),
		log.Float32("delta", delta),
		log.Duration("took", now().Sub(start)),
	)
	return errors.Join(append(errs, ctxErr, publishErr)...)
}
