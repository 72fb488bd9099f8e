package scrambleAuth

// Response is the envelope every transport response is wrapped in.
type Response[T any] struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Data    T                 `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// NewResponse wraps a successful result.
func NewResponse[T any](status int, message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Status:  status,
		Data:    data,
	}
}

// ErrorResponse wraps err. The cause is included only when production is
// false; it is never a stack trace.
func ErrorResponse(err error, production bool) Response[any] {
	e := AsError(err)
	return Response[any]{
		Success: false,
		Message: e.Message,
		Status:  e.Kind.Status(),
		Error:   e.Detail(production),
		Fields:  e.Fields,
	}
}
