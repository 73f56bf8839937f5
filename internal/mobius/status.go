package mobius

// StatusReporter receives lifecycle callbacks for external signaling
// (the reference hardware blinks LEDs at these points). Callbacks fire
// once per poll or attempt inside the bounded retry loops, so an
// implementation also works as a progress indicator.
type StatusReporter interface {
	Scanning()
	Connecting()
	Discovering()
	Sending()
	BindFailed()
	RequestFailed()
}

// NopStatus is a StatusReporter that does nothing.
type NopStatus struct{}

func (NopStatus) Scanning()      {}
func (NopStatus) Connecting()    {}
func (NopStatus) Discovering()   {}
func (NopStatus) Sending()       {}
func (NopStatus) BindFailed()    {}
func (NopStatus) RequestFailed() {}
