package host

// Handler receives host events.
type Handler interface {
	Handle(ev Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event)

func (f HandlerFunc) Handle(ev Event) {
	f(ev)
}

// Dispatcher delivers queued lifecycle events and one tick per Update, in
// that order, to every handler. It is meant to be driven from the host's
// single update callback and is not safe for concurrent use.
type Dispatcher struct {
	handlers []Handler
	queue    EventQueue
	ticks    uint64
}

func NewDispatcher(handlers ...Handler) *Dispatcher {
	d := &Dispatcher{}
	for _, h := range handlers {
		d.Add(h)
	}
	return d
}

func (d *Dispatcher) Add(h Handler) {
	if h == nil {
		return
	}
	d.handlers = append(d.handlers, h)
}

// Push queues an event for the next Update.
func (d *Dispatcher) Push(ev Event) {
	d.queue.Push(ev)
}

// Pending returns the number of queued events.
func (d *Dispatcher) Pending() int {
	return d.queue.Len()
}

// Ticks returns how many ticks have been delivered.
func (d *Dispatcher) Ticks() uint64 {
	return d.ticks
}

// Update flushes queued events, then delivers a tick.
func (d *Dispatcher) Update() {
	for _, ev := range d.queue.Drain() {
		d.emit(ev)
	}
	d.ticks++
	d.emit(Event{Type: EventTick, Data: d.ticks})
}

func (d *Dispatcher) emit(ev Event) {
	for _, h := range d.handlers {
		h.Handle(ev)
	}
}
