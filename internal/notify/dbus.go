//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	appName             = "musichub"
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	conn        *dbus.Conn
	obj         dbus.BusObject
	invocations chan Invocation
}

// New creates a Notifier that sends desktop notifications via D-Bus.
// Returns a no-op notifier if D-Bus is unavailable.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return disabled{}, nil //nolint:nilerr // no session bus: notifications are off
	}

	n := &dbusNotifier{
		conn: conn,
		obj:  conn.Object(dbusNotifyDest, dbusNotifyPath),
	}
	err = conn.AddMatchSignal(
		dbus.WithMatchInterface(dbusNotifyInterface),
		dbus.WithMatchMember("ActionInvoked"),
	)
	if err == nil {
		signals := make(chan *dbus.Signal, 16)
		conn.Signal(signals)
		n.invocations = make(chan Invocation, 16)
		go n.forward(signals)
	}
	return n, nil
}

func (n *dbusNotifier) forward(signals <-chan *dbus.Signal) {
	defer close(n.invocations)
	for sig := range signals {
		if sig.Name != dbusNotifyInterface+".ActionInvoked" || len(sig.Body) != 2 {
			continue
		}
		id, ok1 := sig.Body[0].(uint32)
		key, ok2 := sig.Body[1].(string)
		if !ok1 || !ok2 {
			continue
		}
		select {
		case n.invocations <- Invocation{ID: id, Key: key}:
		default:
		}
	}
}

// Notify calls org.freedesktop.Notifications.Notify.
func (n *dbusNotifier) Notify(notif Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
		"resident":      dbus.MakeVariant(len(notif.Actions) > 0),
	}
	args := []any{
		appName, notif.ReplacesID, notif.Icon, notif.Title, notif.Body,
		flattenActions(notif.Actions), hints, notif.Timeout,
	}

	var id uint32
	if err := n.obj.Call(dbusNotifyInterface+".Notify", 0, args...).Store(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Close closes a notification by ID.
func (n *dbusNotifier) Close(id uint32) error {
	call := n.obj.Call(dbusNotifyInterface+".CloseNotification", 0, id)
	return call.Err
}

func (n *dbusNotifier) Invocations() <-chan Invocation {
	return n.invocations
}
