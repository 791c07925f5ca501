package domain

import (
	"fmt"
	"slices"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
)

var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced}

type Activity string

const (
	ActivityRunning       Activity = "Running"
	ActivityYoga          Activity = "Yoga"
	ActivityWeightlifting Activity = "Weightlifting"
	ActivityCycling       Activity = "Cycling"
	ActivitySwimming      Activity = "Swimming"
	ActivityHiking        Activity = "Hiking"
	ActivityBasketball    Activity = "Basketball"
	ActivityTennis        Activity = "Tennis"
	ActivityCrossFit      Activity = "CrossFit"
	ActivityBoxing        Activity = "Boxing"
)

var Activities = []Activity{
	ActivityRunning, ActivityYoga, ActivityWeightlifting, ActivityCycling, ActivitySwimming,
	ActivityHiking, ActivityBasketball, ActivityTennis, ActivityCrossFit, ActivityBoxing,
}

type Goal string

const (
	GoalLoseWeight    Goal = "Lose Weight"
	GoalBuildMuscle   Goal = "Build Muscle"
	GoalEndurance     Goal = "Improve Endurance"
	GoalStayActive    Goal = "Stay Active"
	GoalFlexibility   Goal = "Increase Flexibility"
	GoalTrainForEvent Goal = "Train for an Event"
)

var Goals = []Goal{GoalLoseWeight, GoalBuildMuscle, GoalEndurance, GoalStayActive, GoalFlexibility, GoalTrainForEvent}

var DaysOfWeek = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var TimeWindows = []string{"Early Morning", "Morning", "Afternoon", "Evening", "Night"}

// Default values assigned at registration.
const (
	DefaultAge    = 21
	DefaultGender = "Male"
	DefaultLat    = 40.78
	DefaultLng    = -73.97
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"password_hash,omitempty"`
	Name              string     `json:"name"`
	Age               int        `json:"age"`
	Gender            string     `json:"gender"`
	Bio               string     `json:"bio"`
	AboutMe           string     `json:"about_me"`
	Avatar            string     `json:"avatar"`
	Activities        []Activity `json:"activities"`
	Goals             []Goal     `json:"goals"`
	SkillLevel        SkillLevel `json:"skill_level"`
	Availability      []string   `json:"availability"`
	Location          Location   `json:"location"`
	Distance          float64    `json:"distance"`
	IsProfileComplete bool       `json:"is_profile_complete"`
}

// NewUser returns a user carrying the registration defaults.
func NewUser(id, email, passwordHash string) *User {
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Age:          DefaultAge,
		Gender:       DefaultGender,
		Avatar:       AvatarFor(email),
		Activities:   []Activity{},
		Goals:        []Goal{},
		SkillLevel:   SkillBeginner,
		Availability: []string{},
		Location:     Location{Lat: DefaultLat, Lng: DefaultLng},
	}
}

func AvatarFor(seed string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/200", seed)
}

// Public returns a copy safe to hand to other users and clients.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp
}

// Days returns the day-name entries of the mixed availability list.
func (u *User) Days() []string {
	var days []string
	for _, item := range u.Availability {
		if slices.Contains(DaysOfWeek, item) {
			days = append(days, item)
		}
	}
	return days
}

// TimeWindows returns the non-day entries of the mixed availability list.
func (u *User) TimeWindows() []string {
	var windows []string
	for _, item := range u.Availability {
		if !slices.Contains(DaysOfWeek, item) {
			windows = append(windows, item)
		}
	}
	return windows
}

func (u *User) HasActivity(a Activity) bool {
	return slices.Contains(u.Activities, a)
}

func IsActivity(s string) bool {
	return slices.Contains(Activities, Activity(s))
}

func IsGoal(s string) bool {
	return slices.Contains(Goals, Goal(s))
}

func IsSkillLevel(s string) bool {
	return slices.Contains(SkillLevels, SkillLevel(s))
}

func IsAvailabilitySlot(s string) bool {
	return slices.Contains(DaysOfWeek, s) || slices.Contains(TimeWindows, s)
}
