package wellness

import "fmt"

// Urgency grades how acute a crisis is.
type Urgency string

const (
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// ParseUrgency accepts medium, high or critical; empty means high.
func ParseUrgency(s string) (Urgency, error) {
	switch Urgency(s) {
	case "":
		return UrgencyHigh, nil
	case UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return Urgency(s), nil
	}
	return "", fmt.Errorf("urgency must be one of medium, high, critical; got %q", s)
}

type Hotline struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	Description string `json:"description"`
	Available   string `json:"available"`
	Method      string `json:"method"`
}

type EmergencyContact struct {
	Name        string `json:"name"`
	Contact     string `json:"contact,omitempty"`
	Description string `json:"description"`
	When        string `json:"when"`
}

// Resources is the crisis support bundle returned by EmergencyResources.
type Resources struct {
	Crisis       []Hotline          `json:"crisis"`
	Immediate    []EmergencyContact `json:"immediate"`
	UrgencyLevel Urgency            `json:"urgencyLevel"`
	Location     string             `json:"location"`
	Message      string             `json:"message"`
}

const defaultLocation = "United States"

// EmergencyResources returns hotlines and emergency contacts with a message
// matched to urgency.
func EmergencyResources(urgency Urgency, location string) Resources {
	if location == "" {
		location = defaultLocation
	}
	var msg string
	switch urgency {
	case UrgencyCritical:
		msg = "🚨 If you're in immediate danger, please call 911 or go to your nearest emergency room right now."
	case UrgencyHigh:
		msg = "⚠️ Please reach out to a crisis hotline. You don't have to go through this alone."
	default:
		msg = "💙 Support is available 24/7. It's okay to ask for help."
	}
	return Resources{
		Crisis: []Hotline{
			{Name: "National Suicide Prevention Lifeline", Contact: "988", Description: "Free, confidential support 24/7", Available: "24/7", Method: "Call or text"},
			{Name: "Crisis Text Line", Contact: "Text HOME to 741741", Description: "Text-based crisis support", Available: "24/7", Method: "Text message"},
			{Name: "SAMHSA National Helpline", Contact: "1-800-662-4357", Description: "Treatment referral and information service", Available: "24/7", Method: "Phone call"},
			{Name: "Veterans Crisis Line", Contact: "988 then press 1", Description: "Support for veterans and their families", Available: "24/7", Method: "Call or text"},
		},
		Immediate: []EmergencyContact{
			{Name: "Emergency Services", Contact: "911", Description: "IMMEDIATE danger - police/ambulance", When: "In immediate danger of self-harm or harm to others"},
			{Name: "Emergency Room", Description: "Visit nearest hospital emergency room", When: "Experiencing psychiatric emergency"},
		},
		UrgencyLevel: urgency,
		Location:     location,
		Message:      msg,
	}
}
