package seed

import "fmt"

// ShowHelp prints the command usage.
func ShowHelp() {
	fmt.Println(`seed-events - populate a running skillfade service with synthetic data

Usage:
  seed-events [flags]

Flags:
  -url string        Base URL of the service (default "http://localhost:9080")
  -users int         Number of users to create (default 10)
  -skills int        Number of skills per user (default 3)
  -events int        Number of events to generate and submit (default 1000)
  -workers int       Number of concurrent submission workers (default NumCPU*2)
  -timeout duration  HTTP request timeout (default 30s)
  -verbose           Log each rejected event
  -help              Show this help

Examples:
  seed-events
  seed-events -url http://localhost:9080 -users 50 -events 10000
  seed-events -events 200 -workers 4 -verbose`)
}
