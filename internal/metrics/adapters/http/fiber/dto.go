package fiber

type StatusResponse struct {
	Status string `json:"status" example:"empty"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"internal_server_error"`
	Message string `json:"message,omitempty"`
}
