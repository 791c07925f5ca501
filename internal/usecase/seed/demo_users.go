package seed

import "github.com/gdugdh24/fitmatch-backend/internal/domain"

// DemoUsers are written to an empty store. Seed sets their password to
// DemoPassword.
func DemoUsers() []domain.User {
	return []domain.User{
		{
			ID:                "demo_sarah",
			Email:             "sarah@fitmatch.demo",
			Name:              "Sarah",
			Age:               26,
			Gender:            "Female",
			Bio:               "Marathon in the fall, yoga on rest days.",
			AboutMe:           "Looking for a steady running partner for early loops around the reservoir.",
			Avatar:            domain.AvatarFor("sarah"),
			Activities:        []domain.Activity{domain.ActivityRunning, domain.ActivityYoga},
			Goals:             []domain.Goal{domain.GoalTrainForEvent, domain.GoalEndurance},
			SkillLevel:        domain.SkillAdvanced,
			Availability:      []string{"Mon", "Wed", "Sat", "Early Morning"},
			Location:          domain.Location{Lat: 40.7851, Lng: -73.9683},
			IsProfileComplete: true,
		},
		{
			ID:                "demo_marcus",
			Email:             "marcus@fitmatch.demo",
			Name:              "Marcus",
			Age:               31,
			Gender:            "Male",
			Bio:               "Powerlifting nerd.",
			AboutMe:           "Happy to spot and be spotted. Evenings after work are best.",
			Avatar:            domain.AvatarFor("marcus"),
			Activities:        []domain.Activity{domain.ActivityWeightlifting, domain.ActivityBoxing},
			Goals:             []domain.Goal{domain.GoalBuildMuscle},
			SkillLevel:        domain.SkillIntermediate,
			Availability:      []string{"Tue", "Thu", "Evening"},
			Location:          domain.Location{Lat: 40.7614, Lng: -73.9776},
			IsProfileComplete: true,
		},
		{
			ID:                "demo_elena",
			Email:             "elena@fitmatch.demo",
			Name:              "Elena",
			Age:               29,
			Gender:            "Female",
			Bio:               "Weekend rides and open water swims.",
			AboutMe:           "Training for my first triathlon and could use company on long rides.",
			Avatar:            domain.AvatarFor("elena"),
			Activities:        []domain.Activity{domain.ActivityCycling, domain.ActivitySwimming, domain.ActivityRunning},
			Goals:             []domain.Goal{domain.GoalTrainForEvent},
			SkillLevel:        domain.SkillIntermediate,
			Availability:      []string{"Sat", "Sun", "Morning"},
			Location:          domain.Location{Lat: 40.7282, Lng: -73.9942},
			IsProfileComplete: true,
		},
		{
			ID:                "demo_jordan",
			Email:             "jordan@fitmatch.demo",
			Name:              "Jordan",
			Age:               23,
			Gender:            "Non-binary",
			Bio:               "Pickup hoops and the occasional hike.",
			AboutMe:           "Just getting back into shape, no pressure.",
			Avatar:            domain.AvatarFor("jordan"),
			Activities:        []domain.Activity{domain.ActivityBasketball, domain.ActivityHiking},
			Goals:             []domain.Goal{domain.GoalStayActive, domain.GoalLoseWeight},
			SkillLevel:        domain.SkillBeginner,
			Availability:      []string{"Fri", "Sat", "Afternoon"},
			Location:          domain.Location{Lat: 40.8075, Lng: -73.9626},
			IsProfileComplete: true,
		},
		{
			ID:                "demo_priya",
			Email:             "priya@fitmatch.demo",
			Name:              "Priya",
			Age:               34,
			Gender:            "Female",
			Bio:               "CrossFit coach, tennis on Sundays.",
			AboutMe:           "I like structured sessions and honest feedback.",
			Avatar:            domain.AvatarFor("priya"),
			Activities:        []domain.Activity{domain.ActivityCrossFit, domain.ActivityTennis},
			Goals:             []domain.Goal{domain.GoalFlexibility, domain.GoalBuildMuscle},
			SkillLevel:        domain.SkillAdvanced,
			Availability:      []string{"Sun", "Night"},
			Location:          domain.Location{Lat: 40.6782, Lng: -73.9442},
			IsProfileComplete: true,
		},
	}
}
