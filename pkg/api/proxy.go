package api

// UserTokenRequest is the body accepted by the proxy routes that act on behalf
// of a user. Token may also be passed in the Authorization header.
type UserTokenRequest struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// MarkReadRequest marks one backend notification as read.
type MarkReadRequest struct {
	NotificationID string `json:"notificationId"`
	Token          string `json:"token"`
}
