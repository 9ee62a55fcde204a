package server

// Debug flags for various subsystems
var (
	DebugSolves = false // Set to true to log every solve with its best pick
)
