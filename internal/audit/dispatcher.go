package audit

import "sync"

const defaultBuffer = 256

type event struct {
	kind  Kind
	attrs map[string]string
}

// Dispatcher decouples event producers from the underlying sink with a
// buffered channel and a single consumer goroutine. When the buffer is full
// events are dropped rather than blocking the producing request.
type Dispatcher struct {
	sink    Sink
	ch      chan event
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	dropped uint64
}

// NewDispatcher starts the consumer goroutine. bufferSize <= 0 selects the
// default. Close must be called to drain and stop it.
func NewDispatcher(sink Sink, bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = defaultBuffer
	}
	if sink == nil {
		sink = NopSink{}
	}
	d := &Dispatcher{
		sink: sink,
		ch:   make(chan event, bufferSize),
		done: make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case ev := <-d.ch:
			d.sink.Emit(ev.kind, ev.attrs)
		case <-d.done:
			// Drain whatever is already buffered, then stop.
			for {
				select {
				case ev := <-d.ch:
					d.sink.Emit(ev.kind, ev.attrs)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues an event without blocking. Events are dropped when the
// buffer is full or the dispatcher is closed.
func (d *Dispatcher) Emit(kind Kind, attrs map[string]string) {
	if d == nil {
		return
	}
	select {
	case d.ch <- event{kind: kind, attrs: attrs}:
	case <-d.done:
	default:
		d.mu.Lock()
		d.dropped++
		d.mu.Unlock()
	}
}

// Close stops the dispatcher after draining buffered events. Safe to call
// more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()
	close(d.done)
	d.wg.Wait()
}

// Dropped reports how many events were discarded due to backpressure.
func (d *Dispatcher) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}
