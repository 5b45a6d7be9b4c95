/*
Package user defines the participant record shared between the hub and the wire protocol.
*/
package user

// User is one initialized endpoint. It is created by the first initialize-session event of a
// connection and lives until that connection closes; the display name never changes.
type User struct {
	// EndpointID is the server-assigned id of the connection that owns this user.
	EndpointID string `json:"endpointId"`

	// DisplayName is self-declared and neither validated nor deduplicated.
	DisplayName string `json:"displayName"`
}
