package seed

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	maxEventAgeDays    = 90
)

// Skill name pool for generated accounts.
var skillNames = []string{
	"go", "rust", "python", "sql", "kubernetes", "terraform",
	"react", "spanish", "piano", "chess", "sketching", "public-speaking",
}

// Event type vocabularies mirrored from the service.
var (
	learningTypes = []string{"reading", "video", "course", "article", "documentation", "tutorial"}
	practiceTypes = []string{"exercise", "project", "work", "teaching", "writing", "building"}
)

// eventSubmission matches the POST /events request body.
type eventSubmission struct {
	EventID string `json:"event_id"`
	SkillID string `json:"skill_id"`
	Type    string `json:"type"`
	Date    string `json:"date"`
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func getRandomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// generateEmail builds a unique synthetic address per user index.
func generateEmail(index int) string {
	return "seed-user-" + strconv.Itoa(index) + "-" + uuid.NewString()[:8] + "@example.com"
}

// generateSkillName picks from the pool, suffixing when a user needs more
// skills than the pool holds.
func generateSkillName(index int) string {
	name := skillNames[index%len(skillNames)]
	if index >= len(skillNames) {
		name += "-" + strconv.Itoa(index/len(skillNames))
	}
	return name
}

// generateDecayRate spreads rates across the valid range so freshness
// curves differ between skills.
func generateDecayRate() float64 {
	// 0.005 .. 0.055
	return 0.005 + getRandomFloat()*0.05
}

// generateEvent builds a random submission against one of the created
// skills. Dates land within the trailing 90 days so history, balance and
// alert sweeps all have material to work with.
func generateEvent(skillIDs []string) eventSubmission {
	skillID := skillIDs[getRandomInt(len(skillIDs))]

	var eventType string
	if getRandomFloat() < 0.5 {
		eventType = learningTypes[getRandomInt(len(learningTypes))]
	} else {
		eventType = practiceTypes[getRandomInt(len(practiceTypes))]
	}

	age := getRandomInt(maxEventAgeDays + 1)
	date := time.Now().UTC().AddDate(0, 0, -age).Format("2006-01-02")

	return eventSubmission{
		EventID: uuid.NewString(),
		SkillID: skillID,
		Type:    eventType,
		Date:    date,
	}
}
