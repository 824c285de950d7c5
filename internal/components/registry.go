// Package components is the closed catalog of therapeutic widgets a turn can surface.
package components

import (
	"errors"
	"fmt"
)

// ID names a widget. The string value is the wire name the model is briefed with.
type ID string

const (
	BreathingExercise ID = "BreathingExercise"
	JournalPrompt     ID = "JournalPrompt"
	MoodTracker       ID = "MoodTracker"
	CognitiveReframe  ID = "CognitiveReframe"
	MeditationGuide   ID = "MeditationGuide"
	AnxietyGrounding  ID = "AnxietyGrounding"
	MoodDashboard     ID = "MoodDashboard"
	CrisisResources   ID = "CrisisResources"
	Affirmations      ID = "Affirmations"
	SleepWindDown     ID = "SleepWindDown"
)

// ErrUnknownComponent is returned when a name is not in the catalog.
var ErrUnknownComponent = errors.New("unknown component")

// Spec describes one widget.
type Spec struct {
	ID          ID       `json:"id"`
	DisplayName string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Interactive bool     `json:"interactive"`
	Triggers    []string `json:"triggers"`
}

var catalog = []Spec{
	{
		ID:          BreathingExercise,
		DisplayName: "Breathing Exercise",
		Category:    "Anxiety Relief",
		Description: "An interactive, animated breathing exercise with visual guidance. Helps users calm anxiety, reduce stress, and regulate their nervous system through guided breathing patterns (4-7-8 technique).",
		Interactive: true,
		Triggers:    []string{"anxious", "anxiety", "panic", "stressed", "nervous", "overwhelmed", "breathe", "breathing", "calm down"},
	},
	{
		ID:          JournalPrompt,
		DisplayName: "Journal Prompt",
		Category:    "Self-Reflection",
		Description: "A journaling interface with thoughtful prompts for self-reflection. Helps users process emotions, explore thoughts, practice gratitude, or engage in stream-of-consciousness writing.",
		Interactive: true,
		Triggers:    []string{"journal", "write", "reflect", "think", "thoughts", "feelings", "express", "gratitude", "grateful"},
	},
	{
		ID:          MoodTracker,
		DisplayName: "Mood Tracker",
		Category:    "Emotional Awareness",
		Description: "An interactive mood logging tool with visual sliders and activity tracking. Allows users to record their current emotional state, intensity, and related activities for pattern analysis.",
		Interactive: true,
		Triggers:    []string{"mood", "feeling", "emotion", "check in", "track", "log", "record", "how am i"},
	},
	{
		ID:          CognitiveReframe,
		DisplayName: "Cognitive Reframe",
		Category:    "Thought Work",
		Description: "A cognitive behavioral therapy tool that helps users identify, challenge, and reframe negative thought patterns. Guides users through evidence-based cognitive restructuring.",
		Interactive: true,
		Triggers:    []string{"negative thought", "thinking", "reframe", "challenge", "cognitive", "thought pattern", "ruminating", "overthinking"},
	},
	{
		ID:          MeditationGuide,
		DisplayName: "Meditation Guide",
		Category:    "Mindfulness",
		Description: "A guided meditation experience with timed sessions and visual guidance. Offers various meditation lengths and styles for mindfulness practice.",
		Interactive: true,
		Triggers:    []string{"meditate", "meditation", "mindfulness", "peace", "peaceful", "center", "present", "awareness"},
	},
	{
		ID:          AnxietyGrounding,
		DisplayName: "Anxiety Grounding",
		Category:    "Anxiety Relief",
		Description: "An interactive 5-4-3-2-1 grounding technique to help users reconnect with the present moment during anxiety or panic. Walks through identifying 5 things you see, 4 you touch, 3 you hear, 2 you smell, 1 you taste.",
		Interactive: true,
		Triggers:    []string{"panic", "panic attack", "grounding", "overwhelmed", "anxiety attack", "dissociate", "present moment"},
	},
	{
		ID:          MoodDashboard,
		DisplayName: "Mood Dashboard",
		Category:    "Progress Tracking",
		Description: "A comprehensive dashboard showing mood patterns, trends, and insights over time. Visualizes the user's emotional journey with charts and analytics.",
		Interactive: false,
		Triggers:    []string{"progress", "dashboard", "stats", "patterns", "history", "trends", "analytics", "insights"},
	},
	{
		ID:          CrisisResources,
		DisplayName: "Crisis Resources",
		Category:    "Emergency Support",
		Description: "CRITICAL: Emergency mental health resources including suicide hotlines, crisis text lines, and immediate help contacts. ALWAYS render this for any mention of self-harm, suicide, or crisis.",
		Interactive: false,
		Triggers:    []string{"suicide", "suicidal", "self harm", "self-harm", "kill myself", "end it all", "crisis", "emergency", "help me", "desperate"},
	},
	{
		ID:          Affirmations,
		DisplayName: "Affirmations",
		Category:    "Positive Psychology",
		Description: "Daily positive affirmations and uplifting messages tailored to the user's emotional state. Helps build self-compassion and positive self-talk.",
		Interactive: false,
		Triggers:    []string{"affirmation", "positive", "encourage", "uplift", "happy", "joyful", "grateful", "celebrate"},
	},
	{
		ID:          SleepWindDown,
		DisplayName: "Sleep Wind-Down",
		Category:    "Sleep Support",
		Description: "A bedtime routine checklist and wind-down sequence to prepare for restful sleep. Includes relaxation techniques and sleep hygiene recommendations.",
		Interactive: true,
		Triggers:    []string{"sleep", "insomnia", "can't sleep", "tired", "bedtime", "wind down", "rest", "sleepy"},
	},
}

var byID = func() map[ID]int {
	m := make(map[ID]int, len(catalog))
	for i, s := range catalog {
		m[s.ID] = i
	}
	return m
}()

// All returns the catalog in registration order.
func All() []Spec {
	out := make([]Spec, len(catalog))
	for i, s := range catalog {
		s.Triggers = append([]string(nil), s.Triggers...)
		out[i] = s
	}
	return out
}

// Lookup returns the spec for id.
func Lookup(id ID) (Spec, bool) {
	i, ok := byID[id]
	if !ok {
		return Spec{}, false
	}
	return catalog[i], true
}

// Valid reports whether id is in the catalog.
func (id ID) Valid() bool {
	_, ok := byID[id]
	return ok
}

// ParseID converts a wire name into an ID.
func ParseID(name string) (ID, error) {
	id := ID(name)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return id, nil
}
