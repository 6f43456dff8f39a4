// Package drive implements the rover's learn/replay drive controller.
// It provides a bounded command buffer, a three-mode lifecycle
// (idle / learn / replay), and a non-blocking duration-based playback
// scheduler driven by the enclosing control loop.
package drive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teslashibe/go-rover/pkg/actuator"
)

// Action is one recordable movement.
type Action string

const (
	ActionForward  Action = "forward"
	ActionBackward Action = "backward"
	ActionLeft     Action = "left"
	ActionRight    Action = "right"
)

// DefaultSpeed is the PWM duty used for all recorded movements.
const DefaultSpeed = 150

// ErrUnknownAction is returned for tokens outside the F/B/L/R set.
var ErrUnknownAction = errors.New("unknown action")

// ParseAction maps a one-letter command token (case-insensitive) to an
// Action. Anything outside {F,B,L,R} is rejected here, so an invalid token
// never reaches the motor mapping.
func ParseAction(token string) (Action, error) {
	switch strings.ToUpper(token) {
	case "F":
		return ActionForward, nil
	case "B":
		return ActionBackward, nil
	case "L":
		return ActionLeft, nil
	case "R":
		return ActionRight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, token)
	}
}

// MotorCommand is one per-side actuator command implied by an Action.
type MotorCommand struct {
	Side  actuator.Side
	Speed int
	Dir   actuator.Direction
}

// Commands returns the two per-motor commands for the action at the given
// speed. Turns stop the inner motor and drive the outer one.
func (a Action) Commands(speed int) ([2]MotorCommand, error) {
	switch a {
	case ActionForward:
		return [2]MotorCommand{
			{Side: actuator.SideLeft, Speed: speed, Dir: actuator.DirForward},
			{Side: actuator.SideRight, Speed: speed, Dir: actuator.DirForward},
		}, nil
	case ActionBackward:
		return [2]MotorCommand{
			{Side: actuator.SideLeft, Speed: speed, Dir: actuator.DirReverse},
			{Side: actuator.SideRight, Speed: speed, Dir: actuator.DirReverse},
		}, nil
	case ActionLeft:
		return [2]MotorCommand{
			{Side: actuator.SideLeft, Speed: 0, Dir: actuator.DirForward},
			{Side: actuator.SideRight, Speed: speed, Dir: actuator.DirForward},
		}, nil
	case ActionRight:
		return [2]MotorCommand{
			{Side: actuator.SideLeft, Speed: speed, Dir: actuator.DirForward},
			{Side: actuator.SideRight, Speed: 0, Dir: actuator.DirForward},
		}, nil
	default:
		return [2]MotorCommand{}, fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}
}
