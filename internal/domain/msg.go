package domain

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Msg is the single response shape of the HTTP surface.
type Msg struct {
	Status string                 `json:"status"`
	Msg    string                 `json:"msg"`
	Extra  map[string]interface{} `json:"extra"`
}

func Success() *Msg {
	return &Msg{Status: StatusSuccess, Msg: "processed successfully", Extra: map[string]interface{}{}}
}

func Fail() *Msg {
	return &Msg{Status: StatusFail, Msg: "processing failed", Extra: map[string]interface{}{}}
}

// Add puts a payload value under key and returns the envelope for chaining.
func (m *Msg) Add(key string, value interface{}) *Msg {
	m.Extra[key] = value
	return m
}

// WithMessage replaces the human-readable message.
func (m *Msg) WithMessage(msg string) *Msg {
	m.Msg = msg
	return m
}
