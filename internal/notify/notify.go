// Package notify provides desktop notifications via D-Bus.
package notify

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Action is a notification button. Key is reported back when invoked.
type Action struct {
	Key   string
	Label string
}

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string   // Summary text (required)
	Body       string   // Body text (optional, supports basic markup)
	Icon       string   // Path to image file or icon name (optional)
	Timeout    int32    // ms, -1 = server default, 0 = never expire
	ReplacesID uint32   // 0 = new notification, >0 = replace existing
	Urgency    Urgency  // Low, Normal, Critical
	Actions    []Action // Buttons, in display order
}

// Invocation reports that the user pressed an action button.
type Invocation struct {
	ID  uint32
	Key string
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
	// Invocations delivers action presses. Nil when actions are unsupported.
	Invocations() <-chan Invocation
}

// flattenActions turns actions into the key/label list D-Bus expects.
func flattenActions(actions []Action) []string {
	out := make([]string, 0, len(actions)*2)
	for _, a := range actions {
		out = append(out, a.Key, a.Label)
	}
	return out
}

// disabled drops every notification.
type disabled struct{}

func (disabled) Notify(Notification) (uint32, error) { return 0, nil }
func (disabled) Close(uint32) error                  { return nil }
func (disabled) Invocations() <-chan Invocation      { return nil }
