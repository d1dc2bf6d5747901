package types

// SuccessEnvelope wraps every successful JSON body.
type SuccessEnvelope struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorEnvelope is the public error body. Codes stay server-side; clients
// discriminate on HTTP status only.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Details any    `json:"details,omitempty"`
}
