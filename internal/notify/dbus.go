package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest   = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsDest + ".Notify"
)

// Popup shows a notice outside the terminal.
type Popup interface {
	Show(n Notice) error
}

// DBusPopup posts notices to the session's notification daemon.
type DBusPopup struct {
	AppName string
	// Timeout in milliseconds; -1 lets the daemon decide.
	Timeout int32
}

var _ Popup = (*DBusPopup)(nil)

// Show sends n as a desktop notification. It opens a private session bus
// connection per call.
func (p *DBusPopup) Show(n Notice) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	urgency := byte(1)
	if n.Level == LevelError {
		urgency = 2
	}
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}

	obj := conn.Object(notificationsDest, notificationsPath)
	call := obj.Call(notificationsNotify, 0,
		p.AppName,        // app_name
		uint32(0),        // replaces_id
		"input-mouse",    // app_icon
		summary(n.Level), // summary
		n.Text,           // body
		[]string{},       // actions
		hints,            // hints
		p.Timeout,        // expire_timeout
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}
	return nil
}

func summary(l Level) string {
	switch l {
	case LevelError:
		return "Cursor not applied"
	case LevelWarn:
		return "Warning!"
	default:
		return "Cursor applied"
	}
}
