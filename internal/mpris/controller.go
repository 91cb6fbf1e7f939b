package mpris

import "github.com/llehouerou/musichub/internal/message"

// Controller is the session surface MPRIS drives: commands go in
// through Submit and property reads come from State.
type Controller interface {
	Submit(cmd message.Command)
	State() message.State
}
