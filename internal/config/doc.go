// Package config loads perch's configuration: the Roost server address
// and the session identity the client renders as "you".
package config
