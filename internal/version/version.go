// ABOUTME: Build identity constants
// ABOUTME: Reported in logs and the remote bridge handshake
package version

const (
	Product = "wavetag"
	Version = "0.1.0"
)
