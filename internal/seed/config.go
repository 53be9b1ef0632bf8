package seed

import "time"

// Config holds the seeding run parameters.
type Config struct {
	BaseURL       string
	Users         int
	SkillsPerUser int
	Events        int
	Workers       int
	Timeout       time.Duration
	Verbose       bool
}

// Stats accumulates the outcome of a seeding run.
type Stats struct {
	StartTime     time.Time
	UsersCreated  int
	SkillsCreated int
	Submitted     int64
	Duplicates    int64
	Failed        int64
}
