package operation

// State is the lifecycle stage of a single invocation.
type State int

const (
	StateIdle State = iota
	StateBound
	StateConfirmed
	StateDeclined
	StateInvoked
	StateSucceeded
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StateBound:     "bound",
	StateConfirmed: "confirmed",
	StateDeclined:  "declined",
	StateInvoked:   "invoked",
	StateSucceeded: "succeeded",
	StateFailed:    "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateDeclined || s == StateSucceeded || s == StateFailed
}

// Result is the outcome of one invocation. A succeeded result carries Output
// and Response, a failed result carries Err, and a declined result carries
// neither.
type Result struct {
	Operation string
	State     State
	Output    any
	Response  any
	Err       error
	Warnings  []string
}

// Succeed marks the result successful.
func (r *Result) Succeed(output, response any) *Result {
	r.State = StateSucceeded
	r.Output = output
	r.Response = response
	r.Err = nil
	return r
}

// Fail marks the result failed with err.
func (r *Result) Fail(err error) *Result {
	r.State = StateFailed
	r.Output = nil
	r.Response = nil
	r.Err = err
	return r
}

// Decline marks the result as a no-op after a declined confirmation.
func (r *Result) Decline() *Result {
	r.State = StateDeclined
	r.Output = nil
	r.Response = nil
	r.Err = nil
	return r
}

func (r *Result) Succeeded() bool { return r.State == StateSucceeded }
func (r *Result) Failed() bool    { return r.State == StateFailed }
func (r *Result) Declined() bool  { return r.State == StateDeclined }
