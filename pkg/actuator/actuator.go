// Package actuator provides interfaces and implementations for driving the
// rover's two DC motors.
//
// This package follows the Interface Segregation Principle (ISP) by defining
// small, focused interfaces that can be composed as needed. Consumers should
// depend only on the interfaces they actually use.
package actuator

// Side identifies one of the rover's motors.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Direction is the rotation direction of a motor.
type Direction string

const (
	DirForward Direction = "forward"
	DirReverse Direction = "reverse"
)

// Speed limits for PWM duty values.
const (
	MinSpeed = 0
	MaxSpeed = 255
)

// MotorController provides per-motor drive control.
// Use this minimal interface when only drive commands are needed.
type MotorController interface {
	Drive(side Side, speed int, dir Direction) error
}

// Stopper provides the all-stop capability.
type Stopper interface {
	StopAll() error
}

// Driver is the composite interface for full motor control.
// The drive controller depends on this.
type Driver interface {
	MotorController
	Stopper
}

// Ensure implementations satisfy Driver
var (
	_ Driver = (*HTTPDriver)(nil)
	_ Driver = (*Recorder)(nil)
)

// ClampSpeed restricts a PWM value to [MinSpeed, MaxSpeed].
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
