package protocol

// Error codes carried in ErrorResponse frames. HTTP-flavored for
// familiarity; the connection policy per code lives with the gateways.
const (
	CodeBadRequest   int32 = 400 // protocol violation, keep open
	CodeUnauthorized int32 = 401 // missing/invalid token, close
	CodeForbidden    int32 = 403 // not the caller's resource, keep open
	CodeRateLimited  int32 = 429 // fixed window exceeded, keep open
	CodeUnavailable  int32 = 503 // transient backend failure, keep open
)

// MsgUnavailable is the only message surfaced for transient backend
// failures; internals are never revealed to clients.
const MsgUnavailable = "Service temporarily unavailable."
