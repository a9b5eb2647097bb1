package transport

// ResponseWriter sends the single response of a request or stream message.
// Send may be called once; later calls are ignored by the adapters.
type ResponseWriter interface {
	Send(status int, body any) error
	Status() int
	Written() bool
}

// Handler serves one request on either transport.
type Handler interface {
	Serve(w ResponseWriter, r *Request)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(w ResponseWriter, r *Request)

// Serve calls f(w, r).
func (f HandlerFunc) Serve(w ResponseWriter, r *Request) {
	f(w, r)
}

// Middleware wraps the next stage of the pipeline. A middleware short-circuits
// by sending a response and not calling next.
type Middleware func(next Handler) Handler

// interceptor observes the response written by downstream stages.
type interceptor struct {
	ResponseWriter
	onSend func(status int, body any)
}

// Intercept returns a ResponseWriter that calls onSend before delegating each
// Send to w.
func Intercept(w ResponseWriter, onSend func(status int, body any)) ResponseWriter {
	return &interceptor{ResponseWriter: w, onSend: onSend}
}

func (i *interceptor) Send(status int, body any) error {
	if !i.ResponseWriter.Written() {
		i.onSend(status, body)
	}
	return i.ResponseWriter.Send(status, body)
}

// Recorder is an in-memory ResponseWriter. It keeps the first response sent.
type Recorder struct {
	Code int
	Body any
	sent bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(status int, body any) error {
	if r.sent {
		return nil
	}
	r.Code, r.Body, r.sent = status, body, true
	return nil
}

func (r *Recorder) Status() int {
	return r.Code
}

func (r *Recorder) Written() bool {
	return r.sent
}
