// Package profile owns the single-user profile aggregate: self-reported
// state, conversation history, and the categorized resource lists, persisted
// as flat JSON documents on disk.
package profile

import "time"

// ConversationTurn is one exchange. Turns are appended in arrival order and
// never edited or removed.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}

// Profile is the persisted per-user aggregate. JSON field names match the
// document layout consumed by the web frontend.
type Profile struct {
	Name                 string             `json:"name"`
	FeelingToday         string             `json:"feelingToday"`
	SleepQuality         string             `json:"sleepQuality"`
	StressLevel          string             `json:"stressLevel"`
	LastCheckIn          string             `json:"lastCheckIn"`
	NextFollowUp         string             `json:"nextFollowUp"`
	ConversationHistory  []ConversationTurn `json:"conversationHistory"`
	IdentifiedConcerns   []string           `json:"identifiedConcerns"`
	RecommendedResources []string           `json:"recommendedResources"`
}

// DefaultProfile returns the empty profile created on first access.
func DefaultProfile() Profile {
	return Profile{
		ConversationHistory:  []ConversationTurn{},
		IdentifiedConcerns:   []string{},
		RecommendedResources: []string{},
	}
}

// ResourceLink is one entry in a resource category.
type ResourceLink struct {
	Name string `json:"name"`
	Link string `json:"link"`
}

// Resources are the static categorized link lists served to the frontend.
type Resources struct {
	Crisis       []ResourceLink `json:"crisis"`
	SelfHelp     []ResourceLink `json:"self_help"`
	Professional []ResourceLink `json:"professional"`
}

// DefaultResources seeds the three categories served before any file exists.
func DefaultResources() Resources {
	return Resources{
		Crisis: []ResourceLink{
			{Name: "988 Suicide & Crisis Lifeline", Link: "https://988lifeline.org/"},
			{Name: "Crisis Text Line", Link: "https://www.crisistextline.org/"},
			{Name: "SAMHSA National Helpline", Link: "https://www.samhsa.gov/find-help/national-helpline"},
		},
		SelfHelp: []ResourceLink{
			{Name: "Anxiety Management Techniques", Link: "https://www.mind.org.uk/information-support/types-of-mental-health-problems/anxiety-and-panic-attacks/self-care/"},
			{Name: "Depression Self-Care Strategies", Link: "https://www.healthline.com/health/depression/self-care-for-depression"},
			{Name: "Mindfulness Practices", Link: "https://www.mindful.org/meditation/mindfulness-getting-started/"},
		},
		Professional: []ResourceLink{
			{Name: "Find a Therapist", Link: "https://www.psychologytoday.com/us/therapists"},
			{Name: "Mental Health America", Link: "https://www.mhanational.org/finding-therapy"},
			{Name: "Online Therapy Services", Link: "https://www.betterhelp.com/"},
		},
	}
}
