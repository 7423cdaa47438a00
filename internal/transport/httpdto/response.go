package httpdto

type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}

// NewErrorResponseWithDetails attaches machine readable detail, such as
// per-field validation messages, to an error envelope.
func NewErrorResponseWithDetails(err string, code string, details any) Response[any] {
	resp := NewErrorResponse(err, code)
	resp.Details = details
	return resp
}
