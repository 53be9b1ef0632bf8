package seed

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/skillfade/pkg/logger"
)

// Run executes a complete seeding pass: create users, attach skills,
// then submit randomized events against them.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting skillfade seed run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.Users),
		logger.Int("skillsPerUser", config.SkillsPerUser),
		logger.Int("events", config.Events),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.Timeout)

	if err := client.checkHealth(ctx, config.BaseURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	skillIDs, err := createAccounts(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("account creation failed: %w", err)
	}

	if err := submitEvents(ctx, client, config, skillIDs, stats); err != nil {
		return fmt.Errorf("event submission failed: %w", err)
	}

	elapsed := time.Since(stats.StartTime)
	logger.Get().Info(ctx, "seed run complete",
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("skillsCreated", stats.SkillsCreated),
		logger.Int("submitted", int(stats.Submitted)),
		logger.Int("duplicates", int(stats.Duplicates)),
		logger.Int("failed", int(stats.Failed)),
		logger.String("elapsed", elapsed.String()))

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d events failed to submit", stats.Failed, config.Events)
	}
	return nil
}

// createAccounts registers users and their skills, returning every skill ID
// so event generation can target them.
func createAccounts(ctx context.Context, client *httpClient, config *Config, stats *Stats) ([]string, error) {
	skillIDs := make([]string, 0, config.Users*config.SkillsPerUser)

	for i := 0; i < config.Users; i++ {
		var user struct {
			ID string `json:"id"`
		}
		body := map[string]string{"email": generateEmail(i)}
		if _, err := client.postJSON(ctx, config.BaseURL+"/users", body, &user, http.StatusCreated); err != nil {
			return nil, fmt.Errorf("failed to create user %d: %w", i, err)
		}
		stats.UsersCreated++

		for j := 0; j < config.SkillsPerUser; j++ {
			var skill struct {
				ID string `json:"id"`
			}
			skillBody := map[string]interface{}{
				"user_id":    user.ID,
				"name":       generateSkillName(j),
				"decay_rate": generateDecayRate(),
			}
			if _, err := client.postJSON(ctx, config.BaseURL+"/skills", skillBody, &skill, http.StatusCreated); err != nil {
				return nil, fmt.Errorf("failed to create skill %d for user %s: %w", j, user.ID, err)
			}
			skillIDs = append(skillIDs, skill.ID)
			stats.SkillsCreated++
		}
	}

	logger.Get().Info(ctx, "accounts created",
		logger.Int("users", stats.UsersCreated),
		logger.Int("skills", stats.SkillsCreated))
	return skillIDs, nil
}

// submitEvents fans generated events out across the worker count.
func submitEvents(ctx context.Context, client *httpClient, config *Config, skillIDs []string, stats *Stats) error {
	if len(skillIDs) == 0 {
		return fmt.Errorf("no skills to submit events against")
	}

	jobs := make(chan eventSubmission, config.Workers)
	var (
		submitted  int64
		duplicates int64
		failed     int64
		wg         sync.WaitGroup
	)

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range jobs {
				var ack struct {
					Duplicate bool `json:"duplicate"`
				}
				code, err := client.postJSON(ctx, config.BaseURL+"/events", event, &ack,
					http.StatusAccepted, http.StatusOK)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "event rejected",
							logger.String("eventID", event.EventID),
							logger.Error(err))
					}
				case code == http.StatusOK && ack.Duplicate:
					atomic.AddInt64(&duplicates, 1)
				default:
					atomic.AddInt64(&submitted, 1)
				}
			}
		}()
	}

	for i := 0; i < config.Events; i++ {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- generateEvent(skillIDs):
		}
	}
	close(jobs)
	wg.Wait()

	stats.Submitted = submitted
	stats.Duplicates = duplicates
	stats.Failed = failed
	return nil
}
