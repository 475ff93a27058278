package core

type (
	Attribute struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	Response struct {
		Attributes []Attribute `json:"attributes"`
	}

	// RequestResponse is returned by operations that create a ledger entry.
	RequestResponse struct {
		Response
		Nonce       uint64 `json:"nonce"`
		RequestHash string `json:"requestHash"`
	}

	Event struct {
		Action     string      `json:"action"`
		Sender     string      `json:"sender"`
		Attributes []Attribute `json:"attributes"`
		Timestamp  int64       `json:"timestamp"`
	}
)

func Attr(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func actionAttrs(action string, attrs ...Attribute) []Attribute {
	return append([]Attribute{Attr("action", action)}, attrs...)
}

func NewResponse(action string, attrs ...Attribute) *Response {
	return &Response{Attributes: actionAttrs(action, attrs...)}
}

func (r *Response) Action() string {
	return r.Get("action")
}

func (r *Response) Get(key string) string {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
