package alerting

import "fmt"

// Message templates. Deliberately low-pressure: the product reminds, it does
// not nag.

func decayMessage(skillName string, score float64, daysSincePractice int) (subject, body string) {
	subject = fmt.Sprintf("Skill freshness update: %s", skillName)
	body = fmt.Sprintf(
		"Hi,\n\n"+
			"Your skill %q hasn't been practiced in %d days.\n\n"+
			"Current freshness: %.0f%%\n\n"+
			"This is a calm reminder. No urgency, no judgment. A small practice\n"+
			"session whenever it suits you will bring it right back.\n\n"+
			"— skillfade\n",
		skillName, daysSincePractice, score,
	)
	return subject, body
}

func practiceGapMessage(skillName string, learningCount int) (subject, body string) {
	subject = fmt.Sprintf("Practice reminder: %s", skillName)
	body = fmt.Sprintf(
		"Hi,\n\n"+
			"You've logged %d learning sessions for %q but no practice yet.\n\n"+
			"Theory fades fastest without use. Even a small hands-on exercise\n"+
			"makes what you learned stick.\n\n"+
			"— skillfade\n",
		learningCount, skillName,
	)
	return subject, body
}

func imbalanceMessage(learningCount, practiceCount int) (subject, body string) {
	subject = "Monthly learning balance update"
	body = fmt.Sprintf(
		"Hi,\n\n"+
			"Over the last month you logged %d learning events and %d practice\n"+
			"events. That balance has been input-heavy for two months running.\n\n"+
			"Consider turning some of that input into practice. No pressure,\n"+
			"just a nudge.\n\n"+
			"— skillfade\n",
		learningCount, practiceCount,
	)
	return subject, body
}
