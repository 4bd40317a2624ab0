// Package roost provides the HTTP client for the Roost social API.
//
// The client normalizes heterogeneous server payloads (avatar seeds vs
// explicit URLs, optional count fields) into the canonical User/Post
// shapes the rest of perch works with. It performs no retries and keeps
// no state of its own.
package roost
