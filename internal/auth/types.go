package auth

// APICapabilityRequest is the request payload sent to the host platform
type APICapabilityRequest struct {
	UserID     int64  `json:"user_id"`
	CourseID   int64  `json:"course_id"`
	Capability string `json:"capability"`
}

// APICapabilityResponse is the expected response from the host platform
type APICapabilityResponse struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}
