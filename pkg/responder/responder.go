// Package responder is the rule-based fallback tier: deterministic message
// classification over ordered indicator lists, with a uniformly random pick
// from the matched category's fixed reply pool. No model inference anywhere.
package responder

import (
	"math/rand"
	"strings"
)

// Category classifies a message for reply selection and concern tagging.
type Category string

const (
	CategoryGreeting   Category = "greeting"
	CategoryHowAreYou  Category = "how_are_you"
	CategoryAnxiety    Category = "anxiety"
	CategoryDepression Category = "depression"
	CategorySleep      Category = "sleep"
	CategoryGratitude  Category = "gratitude"
	CategoryDefault    Category = "default"
)

type matcher struct {
	category   Category
	indicators []string
}

// Matcher order is a policy decision, not incidental: a message matching
// both "anxious" and "thank you" classifies as anxiety because anxiety is
// checked first. Do not reorder.
var matchers = []matcher{
	{CategoryGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}},
	{CategoryHowAreYou, []string{"how are you", "how do you feel", "how's it going", "how are things"}},
	{CategoryAnxiety, []string{"anxious", "anxiety", "worried", "nervous", "panicking"}},
	{CategoryDepression, []string{"depressed", "depression", "sad", "hopeless", "unmotivated"}},
	{CategorySleep, []string{"can't sleep", "insomnia", "sleeping", "tired", "exhausted"}},
	{CategoryGratitude, []string{"thank you", "thanks", "appreciate", "helpful"}},
}

// Greeting and how-are-you pools are personalized with a greeting prefix;
// the remaining pools are fixed text.
var greetedPools = map[Category][]string{
	CategoryGreeting: {
		"how are you feeling today?",
		"it's good to chat with you. How has your day been?",
		"I'm here to support you. How are you doing mentally today?",
	},
	CategoryHowAreYou: {
		"I'm here and ready to help you. More importantly, how are you feeling today?",
		"I'm functioning well! But I'd like to know more about how you're doing.",
		"I'm here to support you. Would you like to share how you've been feeling lately?",
	},
}

var pools = map[Category][]string{
	CategoryAnxiety: {
		"It sounds like you might be experiencing some anxiety. Deep breathing exercises can sometimes help - try breathing in for 4 counts, holding for 2, and exhaling for 6. Would you like to try some other relaxation techniques?",
		"I hear that you're feeling anxious. That's a common emotion that many people experience. Have you found any strategies that help you manage anxiety in the past?",
		"Anxiety can be challenging to deal with. Some people find that mindfulness exercises help. Would you like to talk more about what's causing these feelings?",
	},
	CategoryDepression: {
		"I'm sorry to hear you're feeling this way. Depression can be really difficult. Have you been able to talk to anyone about how you're feeling?",
		"Thank you for sharing that with me. Many people experience depression, and there are resources that can help. Would it be helpful to talk about some self-care strategies?",
		"I'm here to listen. Depression affects many people differently. Could you tell me more about how it's affecting your daily life?",
	},
	CategorySleep: {
		"Sleep difficulties can really impact our mental health. Have you tried establishing a regular sleep routine? Going to bed and waking up at the same time each day can help.",
		"I understand how frustrating sleep problems can be. Limiting screen time before bed and creating a calming bedtime routine might help. Would you like more sleep hygiene tips?",
		"Sleep is so important for our wellbeing. Some people find relaxation techniques before bed helpful. Would you like to talk more about what might be affecting your sleep?",
	},
	CategoryGratitude: {
		"You're welcome! I'm glad I could help. Is there anything else you'd like to talk about?",
		"I'm happy to support you on your mental health journey. Feel free to reach out anytime.",
		"You're very welcome. Taking care of your mental health is important, and I'm here to help with that.",
	},
	CategoryDefault: {
		"I'm here to support you. Could you tell me more about how you're feeling today?",
		"Thank you for sharing that with me. How has this been affecting your daily life?",
		"I'm listening. Would you like to explore some coping strategies together?",
		"Mental health is an important journey. What kind of support are you looking for today?",
		"I'm here to help. Could you share more about what's been on your mind recently?",
	},
}

// Classify returns the first category whose any indicator appears as a
// substring of the lower-cased message, or CategoryDefault. Deterministic.
func Classify(message string) Category {
	lower := strings.ToLower(message)
	for _, m := range matchers {
		for _, indicator := range m.indicators {
			if strings.Contains(lower, indicator) {
				return m.category
			}
		}
	}
	return CategoryDefault
}

// Respond classifies message and picks one reply from the matched pool.
// userName personalizes the greeting categories; empty degrades to the
// neutral "Hi, " prefix. Never returns an empty string.
func Respond(message, userName string) string {
	category := Classify(message)
	candidates := poolFor(category, userName)
	return candidates[rand.Intn(len(candidates))]
}

// ConcernTag maps a category onto the concern recorded in the profile;
// empty for categories that are not mental-health signals.
func ConcernTag(category Category) string {
	switch category {
	case CategoryAnxiety:
		return "anxiety"
	case CategoryDepression:
		return "depression"
	case CategorySleep:
		return "sleep"
	default:
		return ""
	}
}

func poolFor(category Category, userName string) []string {
	if suffixes, ok := greetedPools[category]; ok {
		greeting := "Hi, "
		if userName != "" {
			greeting = "Hi " + userName + ", "
		}
		out := make([]string, len(suffixes))
		for i, suffix := range suffixes {
			out[i] = greeting + suffix
		}
		return out
	}
	return pools[category]
}
