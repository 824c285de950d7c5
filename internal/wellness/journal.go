// Package wellness holds the static guidance surfaced next to the mood log:
// journaling prompts, crisis contacts and time-of-day suggestions.
package wellness

import "github.com/mindflow/mindflow/internal/model"

var journalPrompts = map[model.Mood][]string{
	model.MoodAnxious: {
		"What specific thoughts are making you feel anxious right now?",
		"What is one thing within your control that you can focus on?",
		"Describe a time when you overcame a similar feeling.",
	},
	model.MoodSad: {
		"What emotions are you feeling beneath the sadness?",
		"What would you say to a friend feeling this way?",
		"What small act of self-care could you do right now?",
	},
	model.MoodJoyful: {
		"What contributed to this positive feeling?",
		"How can you capture this moment to revisit later?",
		"Who could you share this joy with?",
	},
	model.MoodOverwhelmed: {
		"What is one small task you could complete right now?",
		"What can you let go of or delegate?",
		"What does your mind and body need most in this moment?",
	},
	model.MoodCalm: {
		"What helped you reach this state of calm?",
		"What are you grateful for in this moment?",
		"How can you carry this feeling forward?",
	},
}

// JournalPrompts returns three prompts for mood. Moods without their own
// set get the calm prompts.
func JournalPrompts(mood model.Mood) []string {
	p, ok := journalPrompts[mood]
	if !ok {
		p = journalPrompts[model.MoodCalm]
	}
	return append([]string(nil), p...)
}
