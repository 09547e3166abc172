package utils

// Result is the structured outcome of an OTP or status operation. Expected
// business failures (wrong code, expired, throttled) come back as
// Success=false with an actionable message, never as an error.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func Ok(message string, data map[string]interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
