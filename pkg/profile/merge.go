package profile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Patch is a partial profile update. A nil field means "no change", never
// "clear": merge preserves every field the patch does not carry. When both
// Message and Response are present a new ConversationTurn is appended.
type Patch struct {
	Name         *string `json:"name,omitempty"`
	FeelingToday *string `json:"feelingToday,omitempty"`
	SleepQuality *string `json:"sleepQuality,omitempty"`
	StressLevel  *string `json:"stressLevel,omitempty"`
	LastCheckIn  *string `json:"lastCheckIn,omitempty"`
	NextFollowUp *string `json:"nextFollowUp,omitempty"`

	Message  *string `json:"message,omitempty"`
	Response *string `json:"response,omitempty"`

	IdentifiedConcerns   *[]string `json:"identifiedConcerns,omitempty"`
	RecommendedResources *[]string `json:"recommendedResources,omitempty"`
}

// PatchFromFields lifts an extracted field map (field name -> snippet) into
// a Patch. Unknown field names are dropped.
func PatchFromFields(fields map[string]string) Patch {
	var p Patch
	for key, value := range fields {
		v := value
		switch key {
		case "name":
			p.Name = &v
		case "feelingToday":
			p.FeelingToday = &v
		case "sleepQuality":
			p.SleepQuality = &v
		case "stressLevel":
			p.StressLevel = &v
		}
	}
	return p
}

// ParsePatch decodes a JSON document into a Patch. Unknown keys are ignored
// so frontend payloads with extra fields do not hard-fail.
func ParsePatch(data []byte) (Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return Patch{}, err
	}
	return p, nil
}

// Merge applies patch over current and returns the new profile. Shallow
// merge: present keys overwrite, absent keys are untouched. History only
// grows; a message/response pair appends one turn stamped with now.
func Merge(current Profile, patch Patch, now time.Time) Profile {
	merged := current

	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.FeelingToday != nil {
		merged.FeelingToday = *patch.FeelingToday
	}
	if patch.SleepQuality != nil {
		merged.SleepQuality = *patch.SleepQuality
	}
	if patch.StressLevel != nil {
		merged.StressLevel = *patch.StressLevel
	}
	if patch.LastCheckIn != nil {
		merged.LastCheckIn = *patch.LastCheckIn
	}
	if patch.NextFollowUp != nil {
		merged.NextFollowUp = *patch.NextFollowUp
	}
	if patch.IdentifiedConcerns != nil {
		merged.IdentifiedConcerns = append([]string{}, (*patch.IdentifiedConcerns)...)
	}
	if patch.RecommendedResources != nil {
		merged.RecommendedResources = append([]string{}, (*patch.RecommendedResources)...)
	}

	if patch.Message != nil && patch.Response != nil {
		history := make([]ConversationTurn, 0, len(current.ConversationHistory)+1)
		history = append(history, current.ConversationHistory...)
		history = append(history, ConversationTurn{
			ID:        uuid.NewString(),
			Timestamp: now,
			Message:   *patch.Message,
			Response:  *patch.Response,
		})
		merged.ConversationHistory = history
	}

	return merged
}

// AddConcern records a concern tag with set semantics, keeping order of
// first appearance.
func AddConcern(p Profile, tag string) Profile {
	if tag == "" {
		return p
	}
	for _, existing := range p.IdentifiedConcerns {
		if existing == tag {
			return p
		}
	}
	out := p
	out.IdentifiedConcerns = append(append([]string{}, p.IdentifiedConcerns...), tag)
	return out
}
