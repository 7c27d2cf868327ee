package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rollcall/internal/activity/models"
	activitystore "rollcall/internal/activity/store/activity"
	"rollcall/pkg/platform/sentinel"
)

type seedActivity struct {
	name         string
	description  string
	schedule     string
	max          int
	participants []string
}

var defaultCatalog = []seedActivity{
	{
		name:         "Chess Club",
		description:  "Learn strategies and compete in chess tournaments",
		schedule:     "Fridays, 3:30 PM - 5:00 PM",
		max:          12,
		participants: []string{"michael@mergington.edu", "daniel@mergington.edu"},
	},
	{
		name:         "Programming Class",
		description:  "Learn programming fundamentals and build software projects",
		schedule:     "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
		max:          20,
		participants: []string{"emma@mergington.edu", "sophia@mergington.edu"},
	},
	{
		name:        "Gym Class",
		description: "Physical education and sports activities",
		schedule:    "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
		max:         30,
	},
	{
		name:        "Math Club",
		description: "Solve challenging problems and prepare for math competitions",
		schedule:    "Wednesdays, 3:30 PM - 4:30 PM",
		max:         15,
	},
	{
		name:        "Art Workshop",
		description: "Explore painting, drawing, and mixed media techniques",
		schedule:    "Thursdays, 3:30 PM - 5:00 PM",
		max:         16,
	},
	{
		name:        "Soccer Team",
		description: "Train and compete in interscholastic soccer matches",
		schedule:    "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
		max:         22,
	},
	{
		name:        "Drama Club",
		description: "Rehearse and perform plays and musicals",
		schedule:    "Mondays and Wednesdays, 3:30 PM - 5:00 PM",
		max:         25,
	},
}

// SeedDefaultCatalog loads the fixed activity catalog into an empty store.
// Seeding an activity that already exists is not an error, so restarts
// against a persistent backend are safe.
func SeedDefaultCatalog(ctx context.Context, s activitystore.Store) error {
	now := time.Now()
	for _, seed := range defaultCatalog {
		a, err := models.NewActivity(seed.name, seed.description, seed.schedule, seed.max, now)
		if err != nil {
			return fmt.Errorf("seed %q: %w", seed.name, err)
		}
		if err := s.Create(ctx, a); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				// Already present from a previous run.
				continue
			}
			return fmt.Errorf("seed %q: %w", seed.name, err)
		}
		for _, addr := range seed.participants {
			if err := s.AddParticipant(ctx, seed.name, addr); err != nil {
				return fmt.Errorf("seed %q participant %q: %w", seed.name, addr, err)
			}
		}
	}
	return nil
}
