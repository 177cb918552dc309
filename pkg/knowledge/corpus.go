package knowledge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// seedDocuments is the reference corpus indexed when the knowledge directory
// is empty. Plain text, one topic per document.
var seedDocuments = map[string]string{
	"anxiety.txt": `
Anxiety is a normal and often healthy emotion. However, when a person regularly feels disproportionate levels of anxiety, it might become a medical disorder.

Common anxiety symptoms include:
- Feeling nervous, restless or tense
- Having a sense of impending danger, panic or doom
- Having an increased heart rate
- Breathing rapidly (hyperventilation)
- Sweating
- Trembling
- Feeling weak or tired
- Trouble concentrating
- Having trouble sleeping
- Experiencing gastrointestinal (GI) problems

Self-help techniques for anxiety:
1. Deep breathing exercises
2. Progressive muscle relaxation
3. Mindfulness meditation
4. Regular physical exercise
5. Adequate sleep
6. Limiting caffeine and alcohol
7. Maintaining a healthy diet
8. Journaling
9. Social connection and support
`,
	"depression.txt": `
Depression is a common and serious medical illness that negatively affects how you feel, think, and act. It causes feelings of sadness and/or a loss of interest in activities you once enjoyed.

Common symptoms of depression include:
- Feeling sad or having a depressed mood
- Loss of interest or pleasure in activities once enjoyed
- Changes in appetite (weight loss or gain)
- Trouble sleeping or sleeping too much
- Loss of energy or increased fatigue
- Increase in purposeless physical activity or slowed movements
- Feeling worthless or guilty
- Difficulty thinking, concentrating or making decisions
- Thoughts of death or suicide

Self-help strategies for depression:
1. Set attainable goals
2. Engage in activities that may make you feel better
3. Exercise regularly
4. Try to spend time with others
5. Postpone important decisions until depression improves
6. Discuss decisions with trusted friends or family
7. Expect your mood to improve gradually, not immediately
8. Develop a routine, especially for sleep
9. Continue educating yourself about depression
`,
	"stress_management.txt": `
Stress management refers to techniques and psychotherapies aimed at controlling a person's level of stress for improving everyday functioning.

Effects of chronic stress:
- Anxiety
- Depression
- Digestive problems
- Headaches
- Heart disease
- Sleep problems
- Weight gain
- Memory and concentration impairment

Effective stress management techniques:
1. Physical activity (30 minutes of exercise most days)
2. Relaxation techniques (deep breathing, meditation, yoga, tai chi)
3. Connecting with others (social support)
4. Time management strategies
5. Setting boundaries
6. Practicing self-care
7. Getting enough sleep
8. Seeking professional help when needed
9. Keeping a stress diary to identify stressors
`,
	"sleep_hygiene.txt": `
Sleep hygiene refers to the habits and practices that are conducive to sleeping well on a regular basis.

Good sleep hygiene practices:
1. Maintain a consistent sleep schedule (go to bed and wake up at the same time)
2. Create a relaxing bedtime routine
3. Ensure your bedroom is quiet, dark, and cool
4. Use a comfortable mattress and pillows
5. Limit exposure to screens before bedtime
6. Avoid caffeine, alcohol, and large meals close to bedtime
7. Regular physical activity during the day
8. Manage worries (journaling before bed can help)
9. Limit daytime naps to 20-30 minutes

Poor sleep can contribute to:
- Decreased cognitive function
- Mood disturbances
- Increased risk of accidents
- Weakened immune system
- Higher risk of health problems like heart disease and diabetes
`,
	"mindfulness.txt": `
Mindfulness is the psychological process of bringing one's attention to experiences occurring in the present moment, which can be developed through meditation and other training.

Benefits of mindfulness practice:
- Reduced stress and anxiety
- Improved focus and attention
- Better emotional regulation
- Enhanced self-awareness
- Improved relationship satisfaction
- Increased immune functioning
- Reduced rumination
- Improved memory and cognitive flexibility

Mindfulness techniques:
1. Mindful breathing: Focus on the sensation of breath entering and leaving the body
2. Body scan meditation: Systematically focus attention on different parts of the body
3. Mindful eating: Pay close attention to the sensory experience of eating
4. Walking meditation: Bring awareness to each step and breath while walking
5. Mindful observation: Choose an object and focus on observing it for a few minutes
6. Mindful listening: Close your eyes and notice all the sounds around you
7. Thought labeling: Observe thoughts as they arise and label them
`,
	"crisis_resources.txt": `
Crisis Resources for Mental Health Emergencies:

1. 988 Suicide & Crisis Lifeline
   - Call or text 988
   - Available 24/7
   - Provides free and confidential support for people in distress

2. Crisis Text Line
   - Text HOME to 741741
   - Available 24/7
   - Trained crisis counselors provide support via text message

3. Emergency Services
   - Call 911 for immediate emergencies
   - Go to the nearest emergency room
   - Contact local urgent psychiatric care services

Warning signs that indicate someone may need immediate help:
- Talking about wanting to die or kill oneself
- Looking for ways to kill oneself
- Talking about feeling hopeless or having no purpose
- Talking about feeling trapped or being in unbearable pain
- Talking about being a burden to others
- Increasing alcohol or drug use
- Acting anxious, agitated, or reckless
- Sleeping too little or too much
- Withdrawing or feeling isolated
- Showing rage or talking about seeking revenge
- Displaying extreme mood swings
`,
}

// EnsureSeedCorpus writes the reference documents into dir when it holds no
// .txt files yet. Existing files are never overwritten. Returns the number
// of files written.
func EnsureSeedCorpus(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create knowledge dir: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read knowledge dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".txt") {
			return 0, nil
		}
	}

	written := 0
	for name, content := range seedDocuments {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0644); err != nil {
			return written, fmt.Errorf("write seed document %s: %w", name, err)
		}
		written++
	}
	return written, nil
}

// LoadDocuments reads every .txt file in dir, sorted by name.
func LoadDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read document %s: %w", entry.Name(), err)
		}
		docs = append(docs, Document{Name: entry.Name(), Content: string(data)})
	}
	return docs, nil
}

// Document is one corpus file prior to chunking.
type Document struct {
	Name    string
	Content string
}
