package plotter

// State is a snapshot of everything a host may display besides the
// surface itself.
type State struct {
	Ready bool
	// Message is a user-visible status line; empty when all is well.
	Message          string
	Viewport         Viewport
	DevicePixelRatio float64
	Mode             Mode
	Cursor           Cursor
	Tooltip          Tooltip
	// Errors holds the validation state of each equation, in list order.
	Errors []ErrorKind
	Frames uint64
}

// State returns the current snapshot.
func (p *Plotter) State() State {
	s := State{
		Ready:            p.ready,
		Message:          p.message,
		Viewport:         p.vp,
		DevicePixelRatio: p.dpr,
		Cursor:           CursorDefault,
		Frames:           p.frames,
	}
	if p.ctrl != nil {
		s.Mode = p.ctrl.Mode()
		s.Cursor = p.ctrl.Cursor()
		s.Tooltip = p.ctrl.Tooltip()
	}
	if p.src != nil {
		eqs := p.src.Equations()
		s.Errors = make([]ErrorKind, len(eqs))
		for i, eq := range eqs {
			s.Errors[i] = eq.Error
		}
	}
	return s
}

// Subscribe registers fn to receive a snapshot after every redraw and
// every state-only change. The returned function unregisters it.
func (p *Plotter) Subscribe(fn func(State)) (cancel func()) {
	id := p.nextSub
	p.nextSub++
	if p.subs == nil {
		p.subs = make(map[int]func(State))
	}
	p.subs[id] = fn
	return func() { delete(p.subs, id) }
}

func (p *Plotter) publish() {
	if len(p.subs) == 0 {
		return
	}
	s := p.State()
	for id := 0; id < p.nextSub; id++ {
		if fn, ok := p.subs[id]; ok {
			fn(s)
		}
	}
}
