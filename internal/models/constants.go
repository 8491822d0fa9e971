// Package models contains data types and constants for the persona chat backend.
package models

// Backend endpoints
const (
	// DefaultBackendURL is the hosted chat backend the widget talked to
	DefaultBackendURL = "https://chatbot-backend-3xcv.onrender.com"

	// EndpointChat is joined to the backend URL
	EndpointChat = "/chat"
)

// Transcript texts
const (
	// DefaultGreeting is the single entry left after a persona change
	DefaultGreeting = "Hello! How can I help you today?"

	// FailurePrefix starts every bot entry that reports a failed exchange
	FailurePrefix = "Error: could not get a response."

	// ServerErrorPrefix starts the detail of a non-2xx failure
	ServerErrorPrefix = "Server error: "
)

// Header names
const (
	HeaderContentType = "Content-Type"
	HeaderRequestID   = "X-Request-ID"
	HeaderUserAgent   = "User-Agent"
)

// DefaultUserAgent identifies the client to the backend
const DefaultUserAgent = "personachat/0.1"

// DefaultHeaders returns the headers sent on every chat request
func DefaultHeaders() map[string]string {
	return map[string]string{
		HeaderContentType: "application/json",
		"Accept":          "application/json",
	}
}
